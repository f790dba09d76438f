package dom

import (
	"fmt"
	"strings"

	"github.com/desertthunder/taskview/internal/shared"
)

// Position is an insertAdjacentHTML position relative to a receiver element.
type Position string

const (
	BeforeBegin Position = "beforebegin"
	AfterBegin  Position = "afterbegin"
	BeforeEnd   Position = "beforeend"
	AfterEnd    Position = "afterend"
)

// ParsePosition normalizes s into a [Position]. An empty value means [BeforeEnd].
func ParsePosition(s string) (Position, error) {
	switch p := Position(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return BeforeEnd, nil
	case BeforeBegin, AfterBegin, BeforeEnd, AfterEnd:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrInvalidPosition, s)
	}
}

// outside reports whether the position places content next to the receiver rather than inside it.
func (p Position) outside() bool {
	return p == BeforeBegin || p == AfterEnd
}
