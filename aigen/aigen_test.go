package aigen

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"archdraw/diagram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"markup", `<b class="x">'&'</b>`, "&lt;b class=&quot;x&quot;&gt;&#x27;&amp;&#x27;&lt;/b&gt;"},
		{"instruction", "You must draw a VPC", " draw a VPC"},
		{"spaced instruction", "system   IGNORE this", " this"},
		{"keyword", "never stop", " stop"},
		{"plain", "Web3層アーキテクチャ", "Web3層アーキテクチャ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeInput(tt.in))
		})
	}
}

func TestSanitizeInputTruncatesRunes(t *testing.T) {
	got := SanitizeInput(strings.Repeat("あ", 400))
	assert.Equal(t, 300, len([]rune(got)))
}

func TestSanitizeQuestion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"nfkc", "ｱﾏｿﾞﾝ ＡＷＳ", "アマゾン AWS"},
		{"control and bidi", "a\u200bb\u202ec\x07d", "abcd"},
		{"fenced instruction", "assistant must comply", "_assistant must_ comply"},
		{"fenced keyword", "never", "_never_"},
		{"tag", "<b>", "&amp;lt;b&amp;gt;"},
		{"markdown link", "[x](http://e)", "x&lt;http://e&gt;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeQuestion(tt.in))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("S3 & <CloudFront>")
	lines := strings.Split(p, "\n")
	assert.Equal(t, "# 目的", lines[0])

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &payload))
	assert.Equal(t, "S3 &amp; &lt;CloudFront&gt;", payload["user_question"])
	assert.NotContains(t, lines[len(lines)-1], `\u0026`)
}

func TestExtractJSON(t *testing.T) {
	raw := "MODELID-claude-x-MODELID Here you go:\n```json\n{\\\"nodes\\\":[]}\n```"
	text, model := ExtractJSON(raw)
	assert.Equal(t, "claude-x", model)
	assert.Equal(t, `{"nodes":[]}`, text)
}

func TestParseResponse(t *testing.T) {
	raw := `MODELID-nova-MODELID{"nodes":[{"id":1,"kind":"EC2","x":10.4,"y":20,"text":"web"},{"id":2,"kind":"Mystery","x":0,"y":0}],` +
		`"frames":[{"id":3,"kind":"VPC","x":0,"y":0,"width":10,"height":400}],` +
		`"edges":[{"id":4,"from":1,"to":2},{"id":5,"from":1,"to":99}]}`

	res, err := ParseResponse(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "nova", res.Model)

	d := res.Diagram
	require.Len(t, d.Nodes, 3)
	assert.Equal(t, diagram.Node{ID: 0, Kind: diagram.KindTextBox, X: 450, Y: -8, Label: ModelLabelPrefix + "nova"}, d.Nodes[0])
	assert.Equal(t, "web", d.Nodes[1].Label)
	assert.Equal(t, 10.0, d.Nodes[1].X)
	assert.Equal(t, diagram.KindOtherService, d.Nodes[2].Kind)
	require.Len(t, d.Frames, 1)
	assert.Equal(t, 80.0, d.Frames[0].Width)
	assert.Equal(t, []diagram.Edge{{ID: 4, From: 1, To: 2}}, d.Edges)
}

func TestParseResponseErrors(t *testing.T) {
	_, err := ParseResponse("sorry, I cannot help", nil)
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = ParseResponse(`{"nodes": [{"id": 1, "kind": "EC2", "x": 1,`, nil)
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = ParseResponse(`MODELID-m-MODELID {"nodes":[]}`, nil)
	assert.ErrorIs(t, err, ErrEmptyDiagram)
}

func TestClientGenerate(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPrompt = body["prompt"]
		io.WriteString(w, `MODELID-m1-MODELID{"nodes":[{"id":1,"kind":"S3","x":0,"y":0}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Generate(context.Background(), "  静的サイト  ")
	require.NoError(t, err)
	assert.Len(t, res.Diagram.Nodes, 2)
	assert.Contains(t, gotPrompt, `{"user_question":"静的サイト"}`)
}

func TestClientAffixes(t *testing.T) {
	c := NewClient("http://unused", WithPromptAffixes("PRE:", ":POST"))
	assert.Equal(t, "PRE:&lt;x&gt;:POST", c.Prompt("<x>"))
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"message":"upstream down"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Generate(context.Background(), "x")
	require.ErrorIs(t, err, ErrStatus)
	assert.Equal(t, "request failed with status 502: upstream down", err.Error())
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, WithTimeout(20*time.Millisecond)).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientPreconditions(t *testing.T) {
	_, err := NewClient("").Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoEndpoint)

	_, err = NewClient("http://unused").Generate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}
