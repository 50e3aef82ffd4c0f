package indexpub

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Publish crate releases to a community package index"
	MsgPrepareShort    = "Commit release manifests to the index and open a pull request"
	MsgPublishShort    = "Publish a crate and supervise its review until it is tagged"
	MsgStatusShort     = "Show the review requests of a package"
	MsgConfigShort     = "Print the effective configuration"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig         = "Load this configuration file after the user and project files"
	MsgFlagFormat         = "Output format: auto, term, text, json or yaml"
	MsgFlagYes            = "Push and open the pull request without asking"
	MsgFlagNoPush         = "Stop after committing to the index clone"
	MsgFlagNoPR           = "Push the branch but do not open a pull request"
	MsgFlagIndexDir       = "Local clone of the index repository (overrides index.dir)"
	MsgFlagForce          = "Pass --force to the publish action"
	MsgFlagSkipBuild      = "Pass --skip-build to the publish action"
	MsgFlagBackoff        = "Wait before each review status query (overrides monitor.backoff)"
	MsgFlagTimeout        = "Give up on a pending review after this long (overrides monitor.timeout)"
	MsgFlagRemote         = "Remote to push the release tag to"
	MsgFlagNonInteractive = "Never prompt; fail when the tag remote is ambiguous"
	MsgFlagDefaults       = "Print the built-in defaults file instead, as a template"

	// Output
	MsgVersionFormat = "indexpub %s (commit %s, built %s)\n"

	// Error messages
	MsgErrNoCommand  = "no command specified"
	MsgErrTokenUnset = "environment variable %s is not set; it must hold a token for %s"
	MsgErrNoHelp     = "help command not found"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/prepare-long.txt
	msgPrepareLongRaw string
	MsgPrepareLong    = strings.TrimSpace(msgPrepareLongRaw)

	//go:embed msgs/prepare-example.txt
	msgPrepareExampleRaw string
	MsgPrepareExample    = strings.TrimRight(msgPrepareExampleRaw, "\n")

	//go:embed msgs/publish-long.txt
	msgPublishLongRaw string
	MsgPublishLong    = strings.TrimSpace(msgPublishLongRaw)

	//go:embed msgs/publish-example.txt
	msgPublishExampleRaw string
	MsgPublishExample    = strings.TrimRight(msgPublishExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimRight(msgStatusExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
