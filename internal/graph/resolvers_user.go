package graph

import (
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/sirajyamin/blink-graphql/internal/apperr"
	"github.com/sirajyamin/blink-graphql/internal/models"
	"github.com/sirajyamin/blink-graphql/internal/rbac"
	"github.com/sirajyamin/blink-graphql/internal/repository"
	"github.com/sirajyamin/blink-graphql/internal/service"
)

// Resolver wires the GraphQL operation surface to the services. Contained
// failures become {success:false, message} envelopes; authorization
// failures raised by the gate escape as request-level errors.
type Resolver struct {
	users *service.UserService
	chat  *service.ChatService
	gate  *rbac.Authorizer
	log   *zap.SugaredLogger
}

func NewResolver(users *service.UserService, chat *service.ChatService, gate *rbac.Authorizer, log *zap.SugaredLogger) *Resolver {
	return &Resolver{users: users, chat: chat, gate: gate, log: log}
}

func validationErr(message string) error {
	return apperr.New(apperr.Validation, message)
}

func failResponse(err error) *models.Response {
	return &models.Response{Success: false, Message: err.Error()}
}

func failUser(err error) *models.UserResult {
	return &models.UserResult{Success: false, Message: err.Error()}
}

func failUserList(err error) *models.UserListResult {
	return &models.UserListResult{Success: false, Message: err.Error()}
}

func failToken(err error) *models.TokenResult {
	return &models.TokenResult{Success: false, Message: err.Error()}
}

func failLogin(err error) *models.LoginResult {
	return &models.LoginResult{Success: false, Message: err.Error()}
}

func (r *Resolver) userQueryFields() graphql.Fields {
	return graphql.Fields{
		"getAllUsers": &graphql.Field{
			Type: getAllUsersResponseType,
			Args: graphql.FieldConfigArgument{
				"page":      &graphql.ArgumentConfig{Type: graphql.Int},
				"limit":     &graphql.ArgumentConfig{Type: graphql.Int},
				"sortField": &graphql.ArgumentConfig{Type: graphql.String},
				"sortOrder": &graphql.ArgumentConfig{Type: graphql.String},
				"filters":   &graphql.ArgumentConfig{Type: userFilterInputType},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if err := r.gate.Require(PrincipalFrom(p.Context), rbac.CapGetAllUsers); err != nil {
					return nil, err
				}

				filters := argMap(p.Args, "filters")
				f := repository.UserFilter{
					FirstName:  argString(filters, "first_name"),
					Email:      argString(filters, "email"),
					Role:       argString(filters, "role"),
					Status:     argString(filters, "status"),
					Experience: argString(filters, "experience"),
					Verified:   argStringSlice(filters, "verified"),
					Skills:     argStringSlice(filters, "skills"),
					DateRange:  argString(filters, "dateRange"),
				}
				opt := repository.ListOptions{
					Page:      argInt(p.Args, "page"),
					Limit:     argInt(p.Args, "limit"),
					SortField: argString(p.Args, "sortField"),
					SortOrder: argString(p.Args, "sortOrder"),
				}

				res, err := r.users.GetAll(p.Context, f, opt)
				if err != nil {
					r.log.Warnw("getAllUsers failed", "err", err)
					return failUserList(err), nil
				}
				return res, nil
			},
		},

		"getUserById": &graphql.Field{
			Type: getUserResponseType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id := argString(p.Args, "id")
				if err := r.gate.RequireSelfOrAdmin(PrincipalFrom(p.Context), rbac.CapGetUserByID, id); err != nil {
					return nil, err
				}
				if id == "" {
					return failUser(validationErr("User ID is required")), nil
				}
				res, err := r.users.GetByID(p.Context, id)
				if err != nil {
					return failUser(err), nil
				}
				return res, nil
			},
		},

		"getUsersBySkillIdSorted": &graphql.Field{
			Type: getAllUsersResponseType,
			Args: graphql.FieldConfigArgument{
				"skillId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if err := r.gate.Require(PrincipalFrom(p.Context), rbac.CapGetAllUsers); err != nil {
					return nil, err
				}
				res, err := r.users.GetBySkill(p.Context, argString(p.Args, "skillId"))
				if err != nil {
					return failUserList(err), nil
				}
				return res, nil
			},
		},
	}
}

func (r *Resolver) userMutationFields() graphql.Fields {
	return graphql.Fields{
		"createUser": &graphql.Field{
			Type: responseType,
			Args: graphql.FieldConfigArgument{
				"first_name":       &graphql.ArgumentConfig{Type: graphql.String},
				"last_name":        &graphql.ArgumentConfig{Type: graphql.String},
				"email":            &graphql.ArgumentConfig{Type: graphql.String},
				"password":         &graphql.ArgumentConfig{Type: graphql.String},
				"confirm_password": &graphql.ArgumentConfig{Type: graphql.String},
				"phone":            &graphql.ArgumentConfig{Type: graphql.String},
				"role":             &graphql.ArgumentConfig{Type: graphql.String},
				"profile_picture":  &graphql.ArgumentConfig{Type: graphql.String},
				"status":           &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				role := argString(p.Args, "role")
				if role == "" {
					return failResponse(validationErr("Role is required")), nil
				}
				password := argString(p.Args, "password")
				if password != "" {
					if len(password) < 8 {
						return failResponse(validationErr("Password too short")), nil
					}
					if len(password) > 20 {
						return failResponse(validationErr("Password too long")), nil
					}
					if confirm := argString(p.Args, "confirm_password"); confirm != "" && confirm != password {
						return failResponse(validationErr("Passwords do not match")), nil
					}
				}

				res, err := r.users.Create(p.Context, service.CreateUserInput{
					FirstName:      argString(p.Args, "first_name"),
					LastName:       argString(p.Args, "last_name"),
					Email:          argString(p.Args, "email"),
					Password:       password,
					Phone:          argString(p.Args, "phone"),
					Role:           role,
					ProfilePicture: argString(p.Args, "profile_picture"),
					Status:         argString(p.Args, "status"),
				})
				if err != nil {
					r.log.Warnw("createUser failed", "err", err)
					return failResponse(err), nil
				}
				return res, nil
			},
		},

		"updateUser": &graphql.Field{
			Type: getUserResponseType,
			Args: graphql.FieldConfigArgument{
				"_id":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"first_name":      &graphql.ArgumentConfig{Type: graphql.String},
				"last_name":       &graphql.ArgumentConfig{Type: graphql.String},
				"email":           &graphql.ArgumentConfig{Type: graphql.String},
				"password":        &graphql.ArgumentConfig{Type: graphql.String},
				"phone":           &graphql.ArgumentConfig{Type: graphql.String},
				"role":            &graphql.ArgumentConfig{Type: graphql.String},
				"profile_picture": &graphql.ArgumentConfig{Type: graphql.String},
				"status":          &graphql.ArgumentConfig{Type: graphql.String},
				"account_status":  &graphql.ArgumentConfig{Type: graphql.String},
				"skills":          &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id := argString(p.Args, "_id")
				caller := PrincipalFrom(p.Context)
				if err := r.gate.RequireSelfOrAdmin(caller, rbac.CapUpdateUser, id); err != nil {
					return nil, err
				}

				if argString(p.Args, "role") != "" && !caller.IsAdmin() {
					return failUser(apperr.New(apperr.Unauthorized, "You are not authorized to update role")), nil
				}
				if argString(p.Args, "account_status") != "" && !caller.IsAdmin() {
					return failUser(apperr.New(apperr.Unauthorized, "You are not authorized to update status")), nil
				}
				if name := argString(p.Args, "first_name"); name != "" {
					if len(name) < 3 {
						return failUser(validationErr("First name is too short")), nil
					}
					if len(name) > 30 {
						return failUser(validationErr("First name is too long")), nil
					}
				}

				var skills []string
				if _, ok := p.Args["skills"]; ok {
					skills = argStringSlice(p.Args, "skills")
				}
				res, err := r.users.Update(p.Context, service.UpdateUserInput{
					ID:             id,
					FirstName:      argString(p.Args, "first_name"),
					LastName:       argString(p.Args, "last_name"),
					Email:          argString(p.Args, "email"),
					Phone:          argString(p.Args, "phone"),
					Password:       argString(p.Args, "password"),
					Role:           argString(p.Args, "role"),
					ProfilePicture: argString(p.Args, "profile_picture"),
					Status:         argString(p.Args, "status"),
					AccountStatus:  argString(p.Args, "account_status"),
					Skills:         skills,
				})
				if err != nil {
					return failUser(err), nil
				}
				return res, nil
			},
		},

		"deleteUserById": &graphql.Field{
			Type: responseType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id := argString(p.Args, "id")
				if err := r.gate.RequireSelfOrAdmin(PrincipalFrom(p.Context), rbac.CapDeleteUserByID, id); err != nil {
					return nil, err
				}
				res, err := r.users.Delete(p.Context, id)
				if err != nil {
					return failResponse(err), nil
				}
				return res, nil
			},
		},

		"verifyUser": &graphql.Field{
			Type: userTokenResponseType,
			Args: graphql.FieldConfigArgument{
				"email": &graphql.ArgumentConfig{Type: graphql.String},
				"phone": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				email, phone := argString(p.Args, "email"), argString(p.Args, "phone")
				if email == "" && phone == "" {
					return failToken(validationErr("Please enter email or phone number")), nil
				}
				res, err := r.users.RequestVerification(p.Context, email, phone)
				if err != nil {
					return failToken(err), nil
				}
				return &models.TokenResult{Success: res.Success, Message: res.Message}, nil
			},
		},

		"verifyOtp": &graphql.Field{
			Type: userGetUserTokenResponseType,
			Args: graphql.FieldConfigArgument{
				"email": &graphql.ArgumentConfig{Type: graphql.String},
				"phone": &graphql.ArgumentConfig{Type: graphql.String},
				"otp":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				email, phone := argString(p.Args, "email"), argString(p.Args, "phone")
				if email == "" && phone == "" {
					return failLogin(validationErr("Please enter email or phone number")), nil
				}
				res, err := r.users.VerifyOTP(p.Context, email, phone, argString(p.Args, "otp"))
				if err != nil {
					return failLogin(err), nil
				}
				return res, nil
			},
		},

		"verifyEmail": &graphql.Field{
			Type: userTokenResponseType,
			Args: graphql.FieldConfigArgument{
				"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"otp":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				res, err := r.users.VerifyEmail(p.Context, argString(p.Args, "email"), argString(p.Args, "otp"))
				if err != nil {
					return failToken(err), nil
				}
				return res, nil
			},
		},

		"resendVerificationEmail": &graphql.Field{
			Type: responseType,
			Args: graphql.FieldConfigArgument{
				"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				res, err := r.users.ResendVerification(p.Context, argString(p.Args, "email"))
				if err != nil {
					return failResponse(err), nil
				}
				return res, nil
			},
		},

		"forgotPassword": &graphql.Field{
			Type: responseType,
			Args: graphql.FieldConfigArgument{
				"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				res, err := r.users.ForgotPassword(p.Context, argString(p.Args, "email"))
				if err != nil {
					return failResponse(err), nil
				}
				return res, nil
			},
		},

		"resetPassword": &graphql.Field{
			Type: userTokenResponseType,
			Args: graphql.FieldConfigArgument{
				"email":            &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"otp":              &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"password":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"confirm_password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				password := argString(p.Args, "password")
				if password != argString(p.Args, "confirm_password") {
					return failToken(validationErr("Passwords do not match")), nil
				}
				if len(password) < 8 {
					return failToken(validationErr("Password too short")), nil
				}
				if len(password) > 20 {
					return failToken(validationErr("Password too long")), nil
				}
				res, err := r.users.ResetPassword(p.Context, argString(p.Args, "email"), argString(p.Args, "otp"), password)
				if err != nil {
					return failToken(err), nil
				}
				return res, nil
			},
		},

		"changePassword": &graphql.Field{
			Type: responseType,
			Args: graphql.FieldConfigArgument{
				"old_password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"new_password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				caller := PrincipalFrom(p.Context)
				if caller == nil {
					return nil, apperr.New(apperr.Unauthenticated, "Not authenticated")
				}
				newPassword := argString(p.Args, "new_password")
				if len(newPassword) < 8 {
					return failResponse(validationErr("New password too short")), nil
				}
				if len(newPassword) > 20 {
					return failResponse(validationErr("New password too long")), nil
				}
				res, err := r.users.ChangePassword(p.Context, caller.ID, argString(p.Args, "old_password"), newPassword)
				if err != nil {
					return failResponse(err), nil
				}
				return res, nil
			},
		},

		"getUserToken": &graphql.Field{
			Type: userGetUserTokenResponseType,
			Args: graphql.FieldConfigArgument{
				"email":    &graphql.ArgumentConfig{Type: graphql.String},
				"phone":    &graphql.ArgumentConfig{Type: graphql.String},
				"password": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				email, phone := argString(p.Args, "email"), argString(p.Args, "phone")
				if email == "" && phone == "" {
					return failLogin(validationErr("Email or phone is required")), nil
				}
				password := argString(p.Args, "password")
				if password != "" {
					if len(password) < 8 {
						return failLogin(validationErr("Password too short")), nil
					}
					if len(password) > 20 {
						return failLogin(validationErr("Password too long")), nil
					}
				}
				res, err := r.users.IssueToken(p.Context, email, phone, password)
				if err != nil {
					return failLogin(err), nil
				}
				return res, nil
			},
		},
	}
}
