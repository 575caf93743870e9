// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
)

type calendarTokenRequest struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

// PutCalendarToken stores the OAuth token a member granted for their
// external calendar. The member must belong to the group.
func (s *SchedulingAPI) PutCalendarToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	if s.tokens == nil {
		handleError(ctx, w, domain.ErrServiceUnavailable)
		return
	}

	var req calendarTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	if _, err := s.groups.MemberCalendar(ctx, vars["id"], vars["memberId"]); err != nil {
		handleError(ctx, w, err)
		return
	}

	token := &oauth2.Token{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenType:    req.TokenType,
		Expiry:       req.Expiry,
	}
	if err := s.tokens.SaveToken(ctx, vars["memberId"], token); err != nil {
		handleError(ctx, w, err)
		return
	}

	slog.InfoContext(ctx, "stored external calendar token", "member_id", vars["memberId"])
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCalendarToken disconnects a member's external calendar.
func (s *SchedulingAPI) DeleteCalendarToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	if s.tokens == nil {
		handleError(ctx, w, domain.ErrServiceUnavailable)
		return
	}

	if _, err := s.groups.MemberCalendar(ctx, vars["id"], vars["memberId"]); err != nil {
		handleError(ctx, w, err)
		return
	}

	if err := s.tokens.DeleteToken(ctx, vars["memberId"]); err != nil {
		handleError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
