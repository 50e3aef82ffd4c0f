// Package topics adds topic-based help to a cobra application. Topics are
// markdown or text documents read from an fs.FS, normally embedded in the
// binary, and are shown by "<app> help <topic>".
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/spf13/cobra"
)

// TopicManager manages help topics for a Cobra application
type TopicManager struct {
	source       fs.FS
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	extensions   []string
	renderer     Renderer
}

// Topic represents a help topic
type Topic struct {
	Name     string
	FilePath string
	Content  string
}

// Options configures the TopicManager
type Options struct {
	// Extensions is the list of file extensions to consider as topics.
	// Defaults to [".txt", ".md"].
	Extensions []string

	// Renderer formats topic content. Defaults to PlainRenderer.
	Renderer Renderer
}

// New creates a TopicManager reading topics from source
func New(source fs.FS, opts Options) *TopicManager {
	tm := &TopicManager{
		source:     source,
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(tm.extensions) == 0 {
		tm.extensions = []string{".txt", ".md"}
	}
	if tm.renderer == nil {
		tm.renderer = &PlainRenderer{}
	}
	return tm
}

func (tm *TopicManager) supported(ext string) bool {
	for _, valid := range tm.extensions {
		if ext == valid {
			return true
		}
	}
	return false
}

// Scan loads every topic file in the source
func (tm *TopicManager) Scan() error {
	if tm.source == nil {
		return nil
	}
	return fs.WalkDir(tm.source, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !tm.supported(path.Ext(p)) {
			return nil
		}
		content, err := fs.ReadFile(tm.source, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		tm.topics[name] = &Topic{Name: name, FilePath: p, Content: string(content)}
		return nil
	})
}

// GetTopic retrieves a topic by name. Flag-style names such as --remote
// also match an "option-remote" topic.
func (tm *TopicManager) GetTopic(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if topic, ok := tm.topics[name]; ok {
		return topic, true
	}
	topic, ok := tm.topics["option-"+name]
	return topic, ok
}

// ListTopics returns all topic names, sorted
func (tm *TopicManager) ListTopics() []string {
	names := make([]string, 0, len(tm.topics))
	for name := range tm.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Show renders the named topic to w
func (tm *TopicManager) Show(w io.Writer, name string) bool {
	topic, ok := tm.GetTopic(name)
	if !ok {
		return false
	}
	_, _ = fmt.Fprint(w, tm.renderer.Render(topic.Content, path.Ext(topic.FilePath)))
	return true
}

// PrintList writes the topic index to w
func (tm *TopicManager) PrintList(w io.Writer, appName string) {
	names := tm.ListTopics()
	if len(names) == 0 {
		_, _ = fmt.Fprintln(w, "No help topics available.")
		return
	}

	var general, options []string
	for _, name := range names {
		if strings.HasPrefix(name, "option-") {
			options = append(options, strings.TrimPrefix(name, "option-"))
		} else {
			general = append(general, name)
		}
	}

	_, _ = fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		_, _ = fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			_, _ = fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		_, _ = fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			_, _ = fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	_, _ = fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", appName)
}

// Initialize replaces rootCmd's help command with one that also knows the
// topics in source
func Initialize(rootCmd *cobra.Command, source fs.FS, opts Options) error {
	tm := New(source, opts)
	if err := tm.Scan(); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to scan help topics")
	}
	tm.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, tm.ListTopics()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			switch {
			case len(args) == 0:
				tm.originalHelp(rootCmd, args)
			case args[0] == "topics":
				tm.PrintList(cmd.OutOrStdout(), rootCmd.Name())
			case tm.Show(cmd.OutOrStdout(), args[0]):
			default:
				target, _, err := rootCmd.Find(args)
				if err != nil || target == nil {
					target = rootCmd
				}
				tm.originalHelp(target, args)
			}
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.SetHelpCommand(helpCmd)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 && tm.Show(cmd.OutOrStdout(), args[0]) {
			return
		}
		tm.originalHelp(cmd, args)
	})
	return nil
}
