package plot

import (
	"fmt"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
)

func unknown(name string) error {
	return fmt.Errorf("%w: %q", domain.ErrUnknownProperty, name)
}
