package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"twitter-chatter/internal/history"
	"twitter-chatter/internal/nlp"
	"twitter-chatter/internal/storage"
	"twitter-chatter/internal/twitter"
)

// Session runs the full pipeline for one conversation: translate the query,
// dispatch the operation, update the context, record the transcript.
// Each Session owns its Context and Dispatcher; deployments serving several
// users create one Session per user and never share them.
type Session struct {
	translator *nlp.Translator
	dispatcher *twitter.Dispatcher
	context    *history.Context
	recorder   storage.Recorder
}

// Result is the outcome of one successfully translated query.
type Result struct {
	Request  twitter.Request
	Response twitter.Response
}

func New(translator *nlp.Translator, dispatcher *twitter.Dispatcher, recorder storage.Recorder) *Session {
	return &Session{
		translator: translator,
		dispatcher: dispatcher,
		context:    history.NewContext(),
		recorder:   recorder,
	}
}

// HandleQuery runs one turn. A translation failure is returned as an error
// and recorded; dispatch failures come back inside the Response. Either way
// the session stays usable for the next query.
func (s *Session) HandleQuery(ctx context.Context, query string) (Result, error) {
	s.context.AddUserMessage(query)

	req, err := s.translator.Translate(ctx, query, s.context)
	if err != nil {
		s.context.AddAssistantMessage(fmt.Sprintf("Error: %v", err), nil)
		s.record(storage.Event{Timestamp: time.Now().UTC(), Query: query, Error: err.Error()})
		return Result{}, err
	}

	resp := s.dispatcher.Execute(ctx, req)
	if resp.Success {
		s.context.AddAssistantMessage(fmt.Sprintf("Successfully executed %s operation.", req.Operation), resp.Data)
	} else {
		s.context.AddAssistantMessage(fmt.Sprintf("Error executing %s: %s", req.Operation, resp.Error), nil)
	}
	s.record(storage.Event{
		Timestamp: time.Now().UTC(),
		Query:     query,
		Operation: req.Operation,
		Success:   resp.Success,
		Error:     resp.Error,
	})
	return Result{Request: req, Response: resp}, nil
}

func (s *Session) record(ev storage.Event) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.AppendEvent(ev); err != nil {
		log.Printf("failed to record transcript event: %v", err)
	}
}

func (s *Session) Context() *history.Context { return s.context }

// CachedUsers reports how many user ids the dispatcher has resolved so far.
func (s *Session) CachedUsers() int { return s.dispatcher.CachedUsers() }
