// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/treesync/treesync/internal/issue"
	"github.com/treesync/treesync/pkg/instance"
)

// issueStyle is the glamour style used for issue cards.
const issueStyle = "dark"

// formatErrorForDisplay uses ActionableError.Format when possible. In verbose
// mode the full error chain is shown.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

func renderWarning(w io.Writer, err error, verbose bool) {
	fmt.Fprintln(w, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
}

// renderFailure prints err and, in verbose mode, the issue card explaining it.
func renderFailure(w io.Writer, err error, verbose bool) {
	fmt.Fprintln(w, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, verbose))

	card := issue.Classify(err)
	if card == nil {
		return
	}
	if !verbose {
		fmt.Fprintln(w, SubtitleStyle.Render("Run with --verbose for an explanation."))
		return
	}
	rendered, renderErr := card.Render(issueStyle)
	if renderErr != nil {
		slog.Warn("failed to render issue", "issueID", card.Id(), "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}

func nodeLabel(n *instance.Node) string {
	return CmdStyle.Render(n.Name()) + " " + SubtitleStyle.Render("("+n.Kind().String()+")")
}

// renderTree draws the node tree. With properties set, each node lists its
// properties before its children, except Name and the script Source text.
func renderTree(root *instance.Node, properties bool) string {
	return buildTree(root, properties).String()
}

func buildTree(n *instance.Node, properties bool) *tree.Tree {
	t := tree.Root(nodeLabel(n)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(treeEnumeratorStyle)

	if properties {
		for _, p := range n.Properties() {
			if p.Name == instance.PropName || p.Name == instance.PropSource {
				continue
			}
			t.Child(VerboseStyle.Render(p.Name + " = " + p.Format()))
		}
	}
	for _, child := range n.Children() {
		t.Child(buildTree(child, properties))
	}
	return t
}
