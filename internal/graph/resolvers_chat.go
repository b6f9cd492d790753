package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/sirajyamin/blink-graphql/internal/models"
	"github.com/sirajyamin/blink-graphql/internal/repository"
)

func failConversations(err error) *models.ConversationsResult {
	return &models.ConversationsResult{Success: false, Message: err.Error()}
}

func failMessages(err error) *models.MessagesResult {
	return &models.MessagesResult{Success: false, Message: err.Error()}
}

func (r *Resolver) chatQueryFields() graphql.Fields {
	return graphql.Fields{
		"getChatMessages": &graphql.Field{
			Type: getChatMessagesResponseType,
			Args: graphql.FieldConfigArgument{
				"filters": &graphql.ArgumentConfig{Type: messageFilterInputType},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				filters := argMap(p.Args, "filters")
				res, err := r.chat.Messages(p.Context, repository.MessageFilter{
					User:           argString(filters, "user"),
					ConversationID: argString(filters, "conversationId"),
					Limit:          int64(argInt(filters, "limit")),
				})
				if err != nil {
					r.log.Warnw("getChatMessages failed", "err", err)
					return failMessages(err), nil
				}
				return res, nil
			},
		},

		"getUserConversations": &graphql.Field{
			Type: getUserConversationsResponseType,
			Args: graphql.FieldConfigArgument{
				"user": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				res, err := r.chat.Conversations(p.Context, argString(p.Args, "user"))
				if err != nil {
					r.log.Warnw("getUserConversations failed", "err", err)
					return failConversations(err), nil
				}
				return res, nil
			},
		},
	}
}
