package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDataWithID struct {
	ID   string
	Name string
}

func (m mockDataWithID) GetID() string {
	return m.ID
}

type mockDataWithoutID struct {
	Name  string
	Value int
}

func newTestFormatter(jsonMode, quiet bool) (*OutputFormatter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &OutputFormatter{JSON: jsonMode, Quiet: quiet, Out: &out, Err: &errOut}, &out, &errOut
}

func TestOutputFormatter_Success_JSON(t *testing.T) {
	f, out, _ := newTestFormatter(true, false)

	require.NoError(t, f.Success(mockDataWithID{ID: "abc", Name: "Test"}))

	var result map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, true, result["success"])
	data := result["data"].(map[string]any)
	assert.Equal(t, "Test", data["Name"])
}

func TestOutputFormatter_Success_Quiet(t *testing.T) {
	t.Run("prints the id", func(t *testing.T) {
		f, out, _ := newTestFormatter(false, true)
		require.NoError(t, f.Success(mockDataWithID{ID: "abc"}))
		assert.Equal(t, "abc\n", out.String())
	})

	t.Run("prints nothing without an id", func(t *testing.T) {
		f, out, _ := newTestFormatter(false, true)
		require.NoError(t, f.Success(mockDataWithoutID{Name: "x"}))
		assert.Empty(t, out.String())
	})
}

func TestOutputFormatter_Success_Human(t *testing.T) {
	f, out, _ := newTestFormatter(false, false)
	require.NoError(t, f.Success(mockDataWithoutID{Name: "x", Value: 3}))
	assert.Contains(t, out.String(), "Name:x")
	assert.Contains(t, out.String(), "Value:3")
}

func TestOutputFormatter_Error(t *testing.T) {
	t.Run("human goes to stderr", func(t *testing.T) {
		f, out, errOut := newTestFormatter(false, false)
		require.NoError(t, f.ErrorWithSuggestion("NOT_FOUND", "record x not found", "run list"))
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "Error: record x not found")
		assert.Contains(t, errOut.String(), "Suggestion: run list")
	})

	t.Run("json goes to stdout", func(t *testing.T) {
		f, out, errOut := newTestFormatter(true, false)
		require.NoError(t, f.Error("NOT_FOUND", "record x not found"))
		assert.Empty(t, errOut.String())

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, false, result["success"])
		errData := result["error"].(map[string]any)
		assert.Equal(t, "NOT_FOUND", errData["code"])
		assert.NotContains(t, errData, "suggestion")
	})
}

func TestOutputFormatter_Fail(t *testing.T) {
	f, _, errOut := newTestFormatter(false, false)
	cause := errors.New("boom")

	err := f.Fail("X", ExitDataErr, cause)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ExitDataErr, ExitCodeFor(err))
	assert.Contains(t, errOut.String(), "Error: boom")
}

func TestOutputFormatter_Printf(t *testing.T) {
	for _, tc := range []struct {
		name        string
		json, quiet bool
		want        string
	}{
		{"human", false, false, "hello 1\n"},
		{"json", true, false, ""},
		{"quiet", false, true, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, out, _ := newTestFormatter(tc.json, tc.quiet)
			f.Printf("hello %d\n", 1)
			assert.Equal(t, tc.want, out.String())
		})
	}
}
