package graph

import (
	"github.com/graphql-go/graphql"
)

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"_id":             &graphql.Field{Type: graphql.String},
		"first_name":      &graphql.Field{Type: graphql.String},
		"last_name":       &graphql.Field{Type: graphql.String},
		"email":           &graphql.Field{Type: graphql.String},
		"age":             &graphql.Field{Type: graphql.Int},
		"role":            &graphql.Field{Type: graphql.String},
		"gender":          &graphql.Field{Type: graphql.String},
		"profile_picture": &graphql.Field{Type: graphql.String},
		"phone":           &graphql.Field{Type: graphql.String},
		"verified":        &graphql.Field{Type: graphql.NewList(graphql.String)},
		"status":          &graphql.Field{Type: graphql.String},
		"account_status":  &graphql.Field{Type: graphql.String},
		"skills":          &graphql.Field{Type: graphql.NewList(graphql.String)},
		"online":          &graphql.Field{Type: graphql.Boolean},
		"lastSeen":        &graphql.Field{Type: graphql.DateTime},
		"created_at":      &graphql.Field{Type: graphql.DateTime},
		"updated_at":      &graphql.Field{Type: graphql.DateTime},
	},
})

var pageInfoType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PageInfo",
	Fields: graphql.Fields{
		"totalRecords":    &graphql.Field{Type: graphql.Int},
		"totalPages":      &graphql.Field{Type: graphql.Int},
		"currentPage":     &graphql.Field{Type: graphql.Int},
		"hasNextPage":     &graphql.Field{Type: graphql.Boolean},
		"hasPreviousPage": &graphql.Field{Type: graphql.Boolean},
	},
})

var offerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Offer",
	Fields: graphql.Fields{
		"amount":       &graphql.Field{Type: graphql.Float},
		"status":       &graphql.Field{Type: graphql.String},
		"counterOffer": &graphql.Field{Type: graphql.Float},
		"terms":        &graphql.Field{Type: graphql.String},
	},
})

var messageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Message",
	Fields: graphql.Fields{
		"_id":            &graphql.Field{Type: graphql.ID},
		"sender":         &graphql.Field{Type: userType},
		"recipient":      &graphql.Field{Type: userType},
		"content":        &graphql.Field{Type: graphql.String},
		"offer":          &graphql.Field{Type: offerType},
		"type":           &graphql.Field{Type: graphql.String},
		"status":         &graphql.Field{Type: graphql.String},
		"conversationId": &graphql.Field{Type: graphql.String},
		"created_at":     &graphql.Field{Type: graphql.DateTime},
		"direction":      &graphql.Field{Type: graphql.String},
		"isCurrentUser":  &graphql.Field{Type: graphql.Boolean},
	},
})

var conversationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Conversation",
	Fields: graphql.Fields{
		"conversationId": &graphql.Field{Type: graphql.String},
		"participant":    &graphql.Field{Type: userType},
		"lastMessage":    &graphql.Field{Type: messageType},
		"unreadCount":    &graphql.Field{Type: graphql.Int},
	},
})

var responseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Response",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.Boolean},
		"message": &graphql.Field{Type: graphql.String},
	},
})

var getUserResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GetUserResponse",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.Boolean},
		"message": &graphql.Field{Type: graphql.String},
		"data":    &graphql.Field{Type: userType},
	},
})

var getAllUsersResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GetAllUsersResponse",
	Fields: graphql.Fields{
		"success":  &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"message":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"data":     &graphql.Field{Type: graphql.NewList(userType)},
		"pageInfo": &graphql.Field{Type: pageInfoType},
	},
})

var userTokenResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UserTokenResponse",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.Boolean},
		"message": &graphql.Field{Type: graphql.String},
		"data":    &graphql.Field{Type: graphql.String},
	},
})

var userLoginUserResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UserLoginUserResponse",
	Fields: graphql.Fields{
		"verified": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"token":    &graphql.Field{Type: graphql.String},
	},
})

var userGetUserTokenResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UserGetUserTokenResponse",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.Boolean},
		"message": &graphql.Field{Type: graphql.String},
		"data":    &graphql.Field{Type: userLoginUserResponseType},
	},
})

var getUserConversationsResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GetUserConversationsResponse",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.Boolean},
		"message": &graphql.Field{Type: graphql.String},
		"data":    &graphql.Field{Type: graphql.NewList(conversationType)},
	},
})

var getChatMessagesResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GetChatMessagesResponse",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.Boolean},
		"message": &graphql.Field{Type: graphql.String},
		"data":    &graphql.Field{Type: graphql.NewList(messageType)},
	},
})

var userFilterInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UserFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"first_name": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"email":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"role":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		"verified":   &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		"status":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"experience": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"skills":     &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		"dateRange":  &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var messageFilterInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "MessageFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"user":           &graphql.InputObjectFieldConfig{Type: graphql.ID},
		"conversationId": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"limit":          &graphql.InputObjectFieldConfig{Type: graphql.Int},
	},
})
