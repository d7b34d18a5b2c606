/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package actions

import (
	"encoding/json"
	"fmt"
	"os"
)

// Event is the slice of a GitHub webhook event payload the drivers consume.
// Unknown payload fields are ignored.
type Event struct {
	Repository  EventRepository  `json:"repository"`
	PullRequest EventPullRequest `json:"pull_request"`
	Issue       EventIssue       `json:"issue"`
}

// EventRepository identifies the repository the event concerns.
type EventRepository struct {
	FullName string `json:"full_name"`
}

// EventPullRequest identifies the pull request the event concerns, when any.
type EventPullRequest struct {
	Number int `json:"number"`
}

// EventIssue identifies the issue the event concerns, when any.
type EventIssue struct {
	Number int `json:"number"`
}

// MissingFieldError reports an event payload that lacks an identifier a
// driver needs. Drivers surface it before any tool or model call happens.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("github event is missing required field %q", e.Field)
}

// ParseEventFile reads and parses the webhook payload GitHub Actions places
// at GITHUB_EVENT_PATH.
func ParseEventFile(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event file: %w", err)
	}
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("parsing event file %s: %w", path, err)
	}
	return &event, nil
}

// repoName returns the event's repository identifier, or a MissingFieldError.
func (e *Event) repoName() (string, error) {
	if e.Repository.FullName == "" {
		return "", &MissingFieldError{Field: "repository.full_name"}
	}
	return e.Repository.FullName, nil
}

// pullRequestNumber returns the event's PR number, or a MissingFieldError.
func (e *Event) pullRequestNumber() (int, error) {
	if e.PullRequest.Number <= 0 {
		return 0, &MissingFieldError{Field: "pull_request.number"}
	}
	return e.PullRequest.Number, nil
}

// issueNumber returns the event's issue number, or a MissingFieldError.
func (e *Event) issueNumber() (int, error) {
	if e.Issue.Number <= 0 {
		return 0, &MissingFieldError{Field: "issue.number"}
	}
	return e.Issue.Number, nil
}
