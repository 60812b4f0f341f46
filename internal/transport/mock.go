package transport

import (
	"context"
	"fmt"
)

// Mock is a scriptable transport for handler tests. Responses are dequeued
// in the order they were scripted; once the script is exhausted the default
// response is returned.
type Mock interface {
	Client

	Reset()
	Recording() []string
	SimulateError(err error)
	ScriptResponse(response Response)
	SetDefaultResponse(response Response)

	// LastPayload returns the payload of the most recent request, nil if no
	// request carried one.
	LastPayload() interface{}
}

type mockImpl struct {
	recording       []string
	scripted        []Response
	defaultResponse Response
	simulateError   error
	lastPayload     interface{}
}

// NewMock creates a mock transport whose default response is an empty 200.
func NewMock() Mock {
	return &mockImpl{
		recording:       make([]string, 0),
		scripted:        make([]Response, 0),
		defaultResponse: Response{Status: 200, Body: []byte(`{"success":true}`)},
	}
}

func (m *mockImpl) Perform(ctx context.Context, method string, path string, payload interface{}) (Response, error) {
	m.recording = append(m.recording, fmt.Sprintf("%s %s", method, path))
	m.lastPayload = payload

	if m.simulateError != nil {
		return Response{}, m.simulateError
	}

	response := m.defaultResponse
	if len(m.scripted) > 0 {
		response = m.scripted[0]
		m.scripted = m.scripted[1:]
	}
	return response, ErrorFromResponse(response)
}

func (m *mockImpl) Reset() {
	m.recording = make([]string, 0)
	m.scripted = make([]Response, 0)
	m.simulateError = nil
	m.lastPayload = nil
}

func (m *mockImpl) Recording() []string {
	return m.recording
}

func (m *mockImpl) SimulateError(err error) {
	m.simulateError = err
}

func (m *mockImpl) ScriptResponse(response Response) {
	m.scripted = append(m.scripted, response)
}

func (m *mockImpl) SetDefaultResponse(response Response) {
	m.defaultResponse = response
}

func (m *mockImpl) LastPayload() interface{} {
	return m.lastPayload
}
