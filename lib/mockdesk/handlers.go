// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockdesk

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bureau-foundation/helpdesk/lib/codec"
	"github.com/bureau-foundation/helpdesk/lib/schema/desk"
)

func (server *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var registration desk.Registration
	if !server.decode(w, r, &registration) {
		return
	}
	if registration.Name == "" || registration.Email == "" || registration.Password == "" {
		server.fail(w, r, http.StatusBadRequest, "Please include all fields")
		return
	}
	created, err := server.store.addUser(registration.Name, registration.Email, registration.Password)
	if err != nil {
		server.failFor(w, r, err)
		return
	}
	server.respondSession(w, r, http.StatusCreated, created)
}

func (server *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var credentials desk.Credentials
	if !server.decode(w, r, &credentials) {
		return
	}
	found, err := server.store.authenticate(credentials.Email, credentials.Password)
	if err != nil {
		server.failFor(w, r, err)
		return
	}
	server.respondSession(w, r, http.StatusOK, found)
}

func (server *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	authenticated := currentUser(r)
	server.respond(w, r, http.StatusOK, desk.Session{
		ID:    authenticated.id,
		Name:  authenticated.name,
		Email: authenticated.email,
	})
}

func (server *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	server.respond(w, r, http.StatusOK, server.store.ticketsFor(currentUser(r).id))
}

func (server *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Product     string `json:"product"`
		Description string `json:"description"`
	}
	if !server.decode(w, r, &request) {
		return
	}
	if request.Product == "" || request.Description == "" {
		server.fail(w, r, http.StatusBadRequest, "Please add a product and description")
		return
	}
	ticket := server.store.addTicket(currentUser(r).id, request.Product, request.Description, desk.StatusNew)
	server.respond(w, r, http.StatusCreated, ticket)
}

func (server *Server) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := server.store.ticket(currentUser(r).id, chi.URLParam(r, "ticketID"))
	if err != nil {
		server.failFor(w, r, err)
		return
	}
	server.respond(w, r, http.StatusOK, ticket)
}

func (server *Server) handleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Status string `json:"status"`
	}
	if !server.decode(w, r, &request) {
		return
	}
	status, err := desk.ParseStatus(request.Status)
	if err != nil {
		server.fail(w, r, http.StatusBadRequest, "Please provide a valid status")
		return
	}
	ticket, err := server.store.setStatus(currentUser(r).id, chi.URLParam(r, "ticketID"), status)
	if err != nil {
		server.failFor(w, r, err)
		return
	}
	server.respond(w, r, http.StatusOK, ticket)
}

func (server *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := server.store.notesFor(currentUser(r).id, chi.URLParam(r, "ticketID"))
	if err != nil {
		server.failFor(w, r, err)
		return
	}
	server.respond(w, r, http.StatusOK, notes)
}

func (server *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Text string `json:"text"`
	}
	if !server.decode(w, r, &request) {
		return
	}
	if strings.TrimSpace(request.Text) == "" {
		server.fail(w, r, http.StatusBadRequest, "Please add some text")
		return
	}
	note, err := server.store.addNote(currentUser(r).id, chi.URLParam(r, "ticketID"), request.Text, false)
	if err != nil {
		server.failFor(w, r, err)
		return
	}
	server.respond(w, r, http.StatusCreated, note)
}

func (server *Server) respondSession(w http.ResponseWriter, r *http.Request, status int, account *user) {
	token, err := server.TokenFor(account.id)
	if err != nil {
		server.fail(w, r, http.StatusInternalServerError, "signing token: "+err.Error())
		return
	}
	server.respond(w, r, status, desk.Session{
		ID:    account.id,
		Name:  account.name,
		Email: account.email,
		Token: token,
	})
}

// decode reads the request body in the format named by Content-Type.
// On failure it writes a 400 and returns false.
func (server *Server) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	requestCodec := codec.ByContentType(r.Header.Get("Content-Type"), codec.JSON)
	if err := requestCodec.Decode(r.Body, target); err != nil {
		server.fail(w, r, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// responseCodec picks the first supported type in Accept, else JSON.
func responseCodec(r *http.Request) codec.Codec {
	for _, candidate := range strings.Split(r.Header.Get("Accept"), ",") {
		if selected := codec.ByContentType(strings.TrimSpace(candidate), nil); selected != nil {
			return selected
		}
	}
	return codec.JSON
}

func (server *Server) respond(w http.ResponseWriter, r *http.Request, status int, value any) {
	responseCodec := responseCodec(r)
	data, err := responseCodec.Marshal(value)
	if err != nil {
		server.logger.Error("encoding response", "path", r.URL.Path, "error", err)
		http.Error(w, "encoding response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", responseCodec.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		server.logger.Debug("writing response", "path", r.URL.Path, "error", err)
	}
}

func (server *Server) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	server.respond(w, r, status, map[string]string{"message": message})
}

func (server *Server) failFor(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errTicketNotFound):
		server.fail(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, errNotAuthorized), errors.Is(err, errInvalidCredentials):
		server.fail(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errUserExists):
		server.fail(w, r, http.StatusBadRequest, err.Error())
	default:
		server.fail(w, r, http.StatusInternalServerError, err.Error())
	}
}
