package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, repl *REPL, line string) string {
	var out bytes.Buffer
	require.Nil(t, repl.Run(&out, line), line)
	return out.String()
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	repl := NewREPL()

	assert.ErrorIs(t, repl.Run(io.Discard, "spawn 1 1"), ErrNotOpen)
	assert.ErrorIs(t, repl.Run(io.Discard, "open"), HelpOpen)
	assert.Error(t, repl.Run(io.Discard, "frobnicate"))

	run(t, repl, "open "+dir)
	assert.Equal(t, "1 ship int32,bool;text,vec2\n", run(t, repl, "layout 1 ship int32,bool;text,vector"))
	assert.Equal(t, "7 spawned as ship\n", run(t, repl, "spawn 7 1"))
	run(t, repl, "set 7 0 0 42")
	run(t, repl, "set 7 1 0 the scout")
	run(t, repl, "set 7 1 1 1.5,-2")
	assert.Error(t, repl.Run(io.Discard, "set 7 0 1 maybe"))
	assert.Error(t, repl.Run(io.Discard, "set 7 5 0 1"))
	assert.Equal(t, "1 deltas\n", run(t, repl, "tick"))
	assert.Equal(t, "0 deltas\n", run(t, repl, "tick"))

	show := run(t, repl, "show 7")
	assert.Contains(t, show, "7 ship live")
	assert.Contains(t, show, " 42 false")
	assert.Contains(t, show, "the scout {1.5 -2}")
	assert.Contains(t, run(t, repl, "list"), "7\tship\t")

	// reopened, the layout comes from the store and the entity from its
	// snapshot
	run(t, repl, "close")
	repl = NewREPL()
	run(t, repl, "open "+dir)
	assert.Equal(t, "1 ship int32,bool;text,vec2\n", run(t, repl, "layouts"))
	show = run(t, repl, "show 7")
	assert.Contains(t, show, "7 ship stored")
	assert.Contains(t, show, "the scout {1.5 -2}")
	assert.Equal(t, io.EOF, repl.Run(io.Discard, "exit"))
}

func TestCommandHandler(t *testing.T) {
	repl := NewREPL()
	run(t, repl, "open "+t.TempDir())
	defer repl.Close()

	post := AddCorsHeaders(CommandHandler(repl, "POST"))
	get := AddCorsHeaders(CommandHandler(repl, "GET"))

	rec := httptest.NewRecorder()
	post(rec, httptest.NewRequest("POST", "/layout", strings.NewReader("2 dot int8")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	post(rec, httptest.NewRequest("POST", "/spawn?id=3", strings.NewReader("2")))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	get(rec, httptest.NewRequest("GET", "/show?id=3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "3 dot live")

	rec = httptest.NewRecorder()
	get(rec, httptest.NewRequest("POST", "/show?id=3", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	get(rec, httptest.NewRequest("GET", "/show?id=99", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
