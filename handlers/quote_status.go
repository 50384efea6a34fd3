package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/services"
)

// transitionQuote applies a status transition for the acting role and, on
// success, persists the new status. Any failure leaves the stored status
// untouched.
func transitionQuote(app *pocketbase.PocketBase, e *core.RequestEvent, to services.Status) error {
	id := e.Request.PathValue("id")
	actor := GetActor(e.Request)

	quote, err := app.FindRecordById("quotes", id)
	if err != nil {
		return apiError(e, http.StatusNotFound, "Quote not found")
	}

	from := services.NormalizeStatus(quote.GetString("status"))
	next, err := services.Transition(from, to, actor.Role, quote.GetDateTime("expires_at").Time(), time.Now())
	if err != nil {
		return transitionError(e, err)
	}

	if next == from {
		// terminal no-op, nothing to persist
		return e.JSON(http.StatusOK, quoteToJSON(quote))
	}

	if next == services.StatusAccepted {
		if err := createProjectForQuote(app, quote); err != nil {
			log.Printf("quote_status: transitionQuote: could not create project: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not create the project for this quote")
		}
	}

	quote.Set("status", string(next))
	if err := app.Save(quote); err != nil {
		log.Printf("quote_status: transitionQuote: could not save status: %v", err)
		return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}

	return e.JSON(http.StatusOK, quoteToJSON(quote))
}

func transitionError(e *core.RequestEvent, err error) error {
	switch {
	case errors.Is(err, services.ErrQuoteExpired):
		return apiError(e, http.StatusConflict, "Quote has expired")
	case errors.Is(err, services.ErrTerminalStatus):
		return apiError(e, http.StatusConflict, "Quote is already finalized")
	case errors.Is(err, services.ErrWrongRole):
		return apiError(e, http.StatusForbidden, "This action is not available for your role")
	default:
		return apiError(e, http.StatusConflict, "Quote cannot move to that status from its current one")
	}
}

// createProjectForQuote creates the downstream project record for an
// accepted quote. Runs before the status write so a failure here never
// leaves an accepted quote without a project.
func createProjectForQuote(app *pocketbase.PocketBase, quote *core.Record) error {
	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return err
	}

	name := quote.GetString("title")
	if name == "" {
		name = quote.GetString("number")
	}

	project := core.NewRecord(col)
	project.Set("quote", quote.Id)
	project.Set("contractor", quote.GetString("contractor"))
	project.Set("client", quote.GetString("client"))
	project.Set("name", name)
	project.Set("status", "active")
	return app.Save(project)
}

// HandleQuoteSend handles POST /quotes/{id}/send
// Contractor sends a draft out for client review.
func HandleQuoteSend(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return transitionQuote(app, e, services.StatusPendingClientReview)
	}
}

// HandleQuoteAccept handles POST /quotes/{id}/accept
// Client accepts a pending quote, creating the downstream project.
func HandleQuoteAccept(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return transitionQuote(app, e, services.StatusAccepted)
	}
}

// HandleQuoteReject handles POST /quotes/{id}/reject
func HandleQuoteReject(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return transitionQuote(app, e, services.StatusRejected)
	}
}

// HandleQuoteReapprove handles POST /quotes/{id}/reapprove
// Contractor reviews client edits: either re-sends the quote for another
// round of review or accepts the edited version outright, depending on the
// requested target status.
func HandleQuoteReapprove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req struct {
			Accept bool `json:"accept"`
		}
		if e.Request.ContentLength > 0 {
			if err := e.BindBody(&req); err != nil {
				return apiError(e, http.StatusBadRequest, "Invalid request body")
			}
		}

		if req.Accept {
			return transitionQuote(app, e, services.StatusAccepted)
		}
		return transitionQuote(app, e, services.StatusPendingClientReview)
	}
}
