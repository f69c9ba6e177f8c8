package ticket_api

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"cinema-ticketing/internal/form"
	"cinema-ticketing/internal/models"
	tickets "cinema-ticketing/internal/tickets/service"
)

var pageTemplate = template.Must(template.New("purchase").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Cinema Ticket Purchase Simulator</title>
<style>
body { font-family: Arial, sans-serif; max-width: 500px; margin: 2em auto; }
.row { margin: .5em 0; }
.note { padding: .6em; margin: .4em 0; border-radius: 4px; }
.note.error { background: #fdd; border: 1px solid #c00; }
.note.info { background: #dfd; border: 1px solid #080; }
button.submit { background: blue; color: white; padding: .5em 1em; }
figure { margin: 1em 0; text-align: center; }
</style>
</head>
<body>
<h1>Cinema Ticket Purchase Simulator</h1>
{{range .Notifications}}<div class="note {{.Kind}}" role="alert"><strong>{{.Title}}:</strong> {{.Message}}</div>
{{end}}
<form method="post" action="/purchase">
<div class="row"><label>Customer name: <input name="name" size="30" value="{{.Draft.CustomerName}}"></label></div>
<div class="row"><label>Movie: <select name="movie">
{{range .Movies}}<option{{if eq . $.Draft.MovieTitle}} selected{{end}}>{{.}}</option>
{{end}}</select></label></div>
<div class="row"><label>Number of tickets: <input name="quantity" size="10" value="{{.Draft.Quantity}}"
 oninput="document.getElementById('refresh').click()"></label>
<button id="refresh" formmethod="get" formaction="/">Update seats</button></div>
<div class="row">
{{range $i, $sel := .Draft.Seats}}<div><label>Seat {{inc $i}}: <select name="seat">
{{range $.SeatDomain}}<option{{if eq . $sel.Seat}} selected{{end}}>{{.}}</option>
{{end}}</select></label></div>
{{end}}</div>
<button class="submit" type="submit">Complete purchase</button>
</form>
{{range .Displayed}}<figure><figcaption>{{.Caption}}</figcaption><img src="{{.ImageURL}}" width="300" height="100" alt="{{.Caption}}"></figure>
{{end}}
</body>
</html>
`))

type pageData struct {
	Draft         form.PurchaseDraft
	Movies        []string
	SeatDomain    []string
	Notifications []Notification
	Displayed     []DisplayedBarcode
}

// PurchaseForm handles GET /. Query parameters carry the fields typed so
// far; a quantity parameter rebuilds the seat selectors.
func (h *Handler) PurchaseForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := form.NewAppState()
	state.Draft.CustomerName = q.Get("name")
	if movie := q.Get("movie"); movie != "" {
		state.Draft.MovieTitle = movie
	}

	var notes []Notification
	if q.Has("quantity") {
		state.Draft.Quantity = q.Get("quantity")
		if err := state.RefreshSeatSelectors(); err != nil {
			notes = append(notes, Notification{Kind: "error", Title: tickets.TitleError, Message: err.Error()})
		}
	}
	applySeats(state, q["seat"])

	h.renderPage(w, http.StatusOK, state.Draft, notes, nil)
}

// SubmitPurchase handles POST /purchase from the form.
func (h *Handler) SubmitPurchase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	state := draftFromForm(r.PostForm)
	surface := &collectingSurface{}
	_, err := h.TicketService.IssueTickets(r.Context(), state.Request(), surface)

	status := http.StatusOK
	var verr *tickets.ValidationError
	if errors.As(err, &verr) {
		status = http.StatusUnprocessableEntity
	}
	h.renderPage(w, status, state.Draft, surface.Notifications, surface.Displayed)
}

// draftFromForm rebuilds the draft from posted values. Seats stay raw so
// the request validates exactly what was sent.
func draftFromForm(values url.Values) *form.AppState {
	state := form.NewAppState()
	state.Draft.CustomerName = values.Get("name")
	state.Draft.MovieTitle = values.Get("movie")
	state.Draft.Quantity = values.Get("quantity")
	for _, seat := range values["seat"] {
		state.Draft.Seats = append(state.Draft.Seats, form.SeatSelector{Seat: seat})
	}
	return state
}

func applySeats(state *form.AppState, seats []string) {
	for i, seat := range seats {
		if i >= len(state.Draft.Seats) {
			return
		}
		// Unknown seats keep the default.
		_ = state.SetSeat(i, seat)
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, draft form.PurchaseDraft, notes []Notification, shown []DisplayedBarcode) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Draft:         draft,
		Movies:        models.Movies,
		SeatDomain:    models.SeatDomain,
		Notifications: notes,
		Displayed:     shown,
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("rendering purchase page failed: %v", err))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
