package tasklist

import "strings"

// State is the component's UI state. Transitions are pure: each returns
// a new State and never touches the receiver.
//
// Fetches and creates take increasing tokens. A response is applied only
// when its token is still the latest issued of its kind, so a slow
// response can never overwrite a newer one.
type State struct {
	Draft   string
	Entries []Entry

	fetchToken  uint64
	createToken uint64
}

// NewTask is the body of a create request.
type NewTask struct {
	ID   string `json:"id"`
	Task string `json:"task"`
}

func (s State) DraftChanged(draft string) State {
	s.Draft = draft
	return s
}

// FetchIssued reserves the token for a new fetch.
func (s State) FetchIssued() (State, uint64) {
	s.fetchToken++
	return s, s.fetchToken
}

// ListReplaced applies entries fetched under token. ok is false when a
// newer fetch was issued since, in which case s is returned unchanged.
func (s State) ListReplaced(token uint64, entries []Entry) (next State, ok bool) {
	if token != s.fetchToken {
		return s, false
	}
	s.Entries = entries
	return s, true
}

// SubmitRequested validates the draft and reserves a create token. ok is
// false when the trimmed draft is empty; nothing should be sent then.
func (s State) SubmitRequested() (next State, text string, token uint64, ok bool) {
	text = strings.TrimSpace(s.Draft)
	if text == "" {
		return s, "", 0, false
	}
	s.createToken++
	return s, text, s.createToken, true
}

// Created clears the draft after the create under token succeeded. A
// create that was overtaken by a newer submit leaves the draft alone.
func (s State) Created(token uint64) (next State, ok bool) {
	if token != s.createToken {
		return s, false
	}
	s.Draft = ""
	return s, true
}
