package models

// Every operation answers with an envelope: success flag, human-readable
// message, op-specific data. Failures contained at the operation boundary
// reuse the same shape with success=false and a nil data.

type PageInfo struct {
	TotalRecords    int  `json:"totalRecords"`
	TotalPages      int  `json:"totalPages"`
	CurrentPage     int  `json:"currentPage"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type UserResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *User  `json:"data"`
}

type UserListResult struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Data     []*User   `json:"data"`
	PageInfo *PageInfo `json:"pageInfo"`
}

type TokenResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

// LoginData is the payload of getUserToken and verifyOtp. Token stays nil
// until the verified-channel set is non-empty.
type LoginData struct {
	Verified []string `json:"verified"`
	Token    *string  `json:"token"`
}

type LoginResult struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    *LoginData `json:"data"`
}

type ConversationsResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    []*Conversation `json:"data"`
}

type MessagesResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    []*ChatMessage `json:"data"`
}
