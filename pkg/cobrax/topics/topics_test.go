package topics_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/arthur-debert/indexpub/pkg/cobrax/topics"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var source = fstest.MapFS{
	"help/workflow.md":       {Data: []byte("# Workflow\n\nprepare then publish")},
	"help/option-remote.txt": {Data: []byte("Choose the tag remote")},
	"help/notes.json":        {Data: []byte("{}")},
}

func TestScan(t *testing.T) {
	tm := topics.New(source, topics.Options{})
	require.NoError(t, tm.Scan())

	assert.Equal(t, []string{"option-remote", "workflow"}, tm.ListTopics())

	topic, ok := tm.GetTopic("workflow")
	require.True(t, ok)
	assert.Contains(t, topic.Content, "prepare then publish")

	_, ok = tm.GetTopic("--remote")
	assert.True(t, ok, "flag-style lookups find option topics")

	_, ok = tm.GetTopic("notes")
	assert.False(t, ok)
}

func TestScan_CustomExtensions(t *testing.T) {
	tm := topics.New(source, topics.Options{Extensions: []string{".json"}})
	require.NoError(t, tm.Scan())
	assert.Equal(t, []string{"notes"}, tm.ListTopics())
}

func TestPrintList(t *testing.T) {
	tm := topics.New(source, topics.Options{})
	require.NoError(t, tm.Scan())

	var buf bytes.Buffer
	tm.PrintList(&buf, "indexpub")
	out := buf.String()
	assert.Contains(t, out, "General topics:\n  workflow")
	assert.Contains(t, out, "Option topics:\n  --remote")
	assert.Contains(t, out, "indexpub help <topic>")
}

func TestInitialize_HelpCommand(t *testing.T) {
	root := &cobra.Command{Use: "indexpub"}
	root.AddCommand(&cobra.Command{Use: "prepare", Short: "Prepare releases", Run: func(*cobra.Command, []string) {}})
	require.NoError(t, topics.Initialize(root, source, topics.Options{}))

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"help", "workflow"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "prepare then publish")

	buf.Reset()
	root.SetArgs([]string{"help", "topics"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "Available help topics:")
}

func TestGlamourRenderer(t *testing.T) {
	r := topics.NewGlamourRenderer()
	assert.Equal(t, "plain", r.Render("plain", ".txt"))
	assert.NotEmpty(t, r.Render("# Title", ".md"))
}

func TestGlamourRenderer_NoTerminal(t *testing.T) {
	r := &topics.GlamourRenderer{Width: 40}
	out := r.Render("# Layout\n\nThe **classification** root.", ".md")
	assert.Contains(t, out, "classification")
	assert.Contains(t, out, "Layout")
}
