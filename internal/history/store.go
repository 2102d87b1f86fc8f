// Package history keeps every subject the user worked on during the process lifetime and
// switches the active workspace between them.
package history

import (
	"iter"
	"strings"

	"github.com/careeroai/careero/internal/conversation"
	"github.com/careeroai/careero/internal/structured"
)

// DefaultLabel is shown for subjects that have no titled artifact yet.
const DefaultLabel = "New record"

// SubjectKind tells what a subject key was derived from.
type SubjectKind string

const (
	KindJob    SubjectKind = "job"
	KindSurvey SubjectKind = "survey"
)

// Subject is one stored unit of work.
type Subject struct {
	Key      string
	Kind     SubjectKind
	Session  *conversation.Session
	Artifact *structured.Artifact
}

// Label is the artifact title, or DefaultLabel.
func (s *Subject) Label() string {
	if title := s.Artifact.Title(); title != "" {
		return title
	}
	return DefaultLabel
}

// Workspace is the subject currently being worked on.
type Workspace struct {
	Key      string
	Kind     SubjectKind
	Session  *conversation.Session
	Artifact *structured.Artifact
}

// Store is an insertion-ordered set of subjects. It is not safe for concurrent use.
type Store struct {
	subjects []*Subject
	index    map[string]int
}

func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// Upsert records session and artifact against key. Provided values replace stored ones; nil or
// empty values leave them untouched. A new subject is only added when there is something to
// store, and a blank key is ignored.
func (s *Store) Upsert(key string, kind SubjectKind, session *conversation.Session, artifact *structured.Artifact) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	hasSession := session != nil && session.Len() > 0
	hasArtifact := artifact != nil

	if i, ok := s.index[key]; ok {
		subject := s.subjects[i]
		if hasSession {
			subject.Session = session
		}
		if hasArtifact {
			subject.Artifact = artifact
		}
		if kind != "" {
			subject.Kind = kind
		}
		return
	}

	if !hasSession && !hasArtifact {
		return
	}

	subject := &Subject{Key: key, Kind: kind}
	if hasSession {
		subject.Session = session
	}
	if hasArtifact {
		subject.Artifact = artifact
	}
	s.index[key] = len(s.subjects)
	s.subjects = append(s.subjects, subject)
}

// SwitchTo stores the active workspace under its own key and returns the workspace for target.
// Values the target does not have come back nil. An unknown target yields a fresh workspace.
func (s *Store) SwitchTo(active Workspace, target string) Workspace {
	s.Upsert(active.Key, active.Kind, active.Session, active.Artifact)

	target = strings.TrimSpace(target)
	subject, ok := s.Get(target)
	if !ok {
		return Workspace{Key: target, Kind: KindJob}
	}

	return Workspace{
		Key:      subject.Key,
		Kind:     subject.Kind,
		Session:  subject.Session,
		Artifact: subject.Artifact,
	}
}

// Get returns the subject stored under key.
func (s *Store) Get(key string) (*Subject, bool) {
	i, ok := s.index[strings.TrimSpace(key)]
	if !ok {
		return nil, false
	}
	return s.subjects[i], true
}

func (s *Store) Len() int {
	return len(s.subjects)
}

// Subjects yields stored subjects in insertion order.
func (s *Store) Subjects() iter.Seq[*Subject] {
	return func(yield func(*Subject) bool) {
		for _, subject := range s.subjects {
			if !yield(subject) {
				return
			}
		}
	}
}

// Labels yields one display label per subject in insertion order.
func (s *Store) Labels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for subject := range s.Subjects() {
			if !yield(subject.Label()) {
				return
			}
		}
	}
}
