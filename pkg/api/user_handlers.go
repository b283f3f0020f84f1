package api

import (
	"fmt"
	"net/http"

	"github.com/platinummonkey/gatehouse/pkg/apperr"
	"github.com/platinummonkey/gatehouse/pkg/httputil"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/users"
)

// UserHandlers serves the session-protected user listing
type UserHandlers struct {
	users   users.Store
	logger  *observability.Logger
	verbose bool
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(store users.Store, logger *observability.Logger, verbose bool) *UserHandlers {
	return &UserHandlers{
		users:   store,
		logger:  logger,
		verbose: verbose,
	}
}

// list handles GET /api/users
func (h *UserHandlers) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.users.List(r.Context())
	if err != nil {
		httputil.WriteAppError(w, h.logger,
			apperr.StoreError(fmt.Errorf("user listing: %w", err)), h.verbose)
		return
	}

	rows := make([]UserRow, 0, len(all))
	for _, u := range all {
		rows = append(rows, UserRow{UserID: u.ID, Username: u.Username})
	}
	httputil.WriteSuccess(w, rows)
}
