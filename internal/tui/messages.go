package tui

import (
	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/samueldmelo/logfoto/internal/usecase"
)

type registeredMsg struct {
	product *domain.Product
	err     error
}

// flashExpiredMsg hides the success indicator it was scheduled for. A newer
// flash carries a different id and is left alone.
type flashExpiredMsg struct {
	id int
}

type listLoadedMsg struct {
	gen     uint64
	listing *usecase.Listing
	err     error
}

type editedMsg struct {
	product *domain.Product
	err     error
}

type deletedMsg struct {
	id  string
	err error
}
