// Package repomanager wires the repositories to a shared database handle and
// runs migrations at startup.
package repomanager

import (
	"boardchat/internal/server/repositories/boards"
	"boardchat/internal/server/repositories/channels"
	"boardchat/internal/server/repositories/messages"
	"boardchat/internal/server/repositories/sessions"
	"boardchat/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Sessions() sessions.Repository
	Channels() channels.Repository
	Messages() messages.Repository
	Boards() boards.Repository
	Close() error
}
