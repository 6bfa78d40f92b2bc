package routes

const (
	Health = "/health"

	Chats              = "/chats"
	ChatMessages       = "/chats/{id}/messages"
	ChatDefaultHistory = "/chats/default/history"
	ChatDefaultMessage = "/chats/default/message"
)
