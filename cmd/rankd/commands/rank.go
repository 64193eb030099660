package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/rankd/am"
	"github.com/teranos/rankd/analyzer"
	"github.com/teranos/rankd/complete"
	"github.com/teranos/rankd/errors"
	"github.com/teranos/rankd/logger"
	"github.com/teranos/rankd/proposal"
	"github.com/teranos/rankd/replace"
	"github.com/teranos/rankd/server"
)

// RankCmd ranks a candidate fixture offline
var RankCmd = &cobra.Command{
	Use:   "rank <fixture.yaml>",
	Short: "Rank a candidate fixture and print the completion list",
	Long: `Rank a candidate fixture and print the completion list.

A fixture describes the request context, the client capabilities and the raw
candidates an analyzer produced. When the fixture carries a document, the
built-in analyzer contributes candidates for the cursor offset as well.

Example fixture:

  context:
    token: cou
  capabilities:
    tag_support: true
    item_defaults: [insertTextFormat, editRange]
  candidates:
    - kind: field_ref
      completion: counter
      relevance: 30
      signature: I
      declaration_signature: LDemo;`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

var (
	rankJSON   bool
	rankDBPath string
)

func init() {
	RankCmd.Flags().BoolVar(&rankJSON, "json", false, "Print the completion list as protocol JSON")
	RankCmd.Flags().StringVar(&rankDBPath, "db-path", "", "Rank with selection history from this database")
}

// Fixture is an offline completion request.
type Fixture struct {
	Context      FixtureContext      `yaml:"context"`
	Capabilities FixtureCapabilities `yaml:"capabilities"`
	// MaxResults overrides completion.max_results when set.
	MaxResults *int `yaml:"max_results"`
	// Document and Offset enable the built-in analyzer and edit ranges.
	Document   string             `yaml:"document"`
	Offset     *int               `yaml:"offset"`
	Candidates []FixtureCandidate `yaml:"candidates"`
}

type FixtureContext struct {
	URI     string   `yaml:"uri"`
	Token   string   `yaml:"token"`
	Package string   `yaml:"package"`
	Imports []string `yaml:"imports"`
}

type FixtureCapabilities struct {
	TagSupport    bool     `yaml:"tag_support"`
	InsertReplace bool     `yaml:"insert_replace"`
	ItemDefaults  []string `yaml:"item_defaults"`
}

type FixtureCandidate struct {
	Kind                 string   `yaml:"kind"`
	Completion           string   `yaml:"completion"`
	Name                 string   `yaml:"name"`
	Label                string   `yaml:"label"`
	Detail               string   `yaml:"detail"`
	Documentation        string   `yaml:"documentation"`
	Relevance            int      `yaml:"relevance"`
	Flags                []string `yaml:"flags"`
	Signature            string   `yaml:"signature"`
	DeclarationSignature string   `yaml:"declaration_signature"`
	ReplaceStart         int      `yaml:"replace_start"`
	ReplaceEnd           int      `yaml:"replace_end"`
	RequiresImport       bool     `yaml:"requires_import"`
}

// LoadFixture decodes a YAML fixture.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "failed to decode fixture")
	}
	return &f, nil
}

func (f *Fixture) capabilities() complete.ClientCapabilities {
	caps := complete.ClientCapabilities{
		TagSupport:           f.Capabilities.TagSupport,
		InsertReplaceSupport: f.Capabilities.InsertReplace,
	}
	for _, name := range f.Capabilities.ItemDefaults {
		switch name {
		case "insertTextFormat":
			caps.ItemDefaultsInsertTextFormat = true
		case "editRange":
			caps.ItemDefaultsEditRange = true
		}
	}
	return caps
}

func (f *Fixture) candidates() ([]proposal.Candidate, error) {
	out := make([]proposal.Candidate, 0, len(f.Candidates))
	for i, fc := range f.Candidates {
		kind, err := proposal.ParseKind(fc.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "candidate %d", i)
		}
		out = append(out, proposal.Candidate{
			Kind:                 kind,
			Relevance:            fc.Relevance,
			Flags:                proposal.ParseFlags(fc.Flags),
			Completion:           fc.Completion,
			Name:                 fc.Name,
			Label:                fc.Label,
			Detail:               fc.Detail,
			Documentation:        fc.Documentation,
			Signature:            fc.Signature,
			DeclarationSignature: fc.DeclarationSignature,
			ReplaceStart:         fc.ReplaceStart,
			ReplaceEnd:           fc.ReplaceEnd,
			RequiresImport:       fc.RequiresImport,
		})
	}
	return out, nil
}

// RunFixture ranks f with an engine configured from cfg. conn may be nil.
func RunFixture(ctx context.Context, cfg *am.Config, conn *sql.DB, f *Fixture) (*complete.List, error) {
	if f.MaxResults != nil {
		copied := *cfg
		copied.Completion.MaxResults = *f.MaxResults
		cfg = &copied
	}

	srv, err := server.New(cfg, conn, logger.ComponentLogger("rank"))
	if err != nil {
		return nil, err
	}
	defer srv.Stop()

	candidates, err := f.candidates()
	if err != nil {
		return nil, err
	}

	req := complete.Request{
		Context: proposal.Context{
			URI:     f.Context.URI,
			Token:   f.Context.Token,
			Package: f.Context.Package,
			Imports: f.Context.Imports,
		},
		Capabilities: f.capabilities(),
	}

	if f.Document != "" {
		doc := replace.NewDocument(f.Context.URI, 0, f.Document)
		offset := len(f.Document)
		if f.Offset != nil {
			offset = *f.Offset
		}
		if offset < 0 || offset > len(f.Document) {
			return nil, errors.NewInvalidRequestError("offset %d outside document of length %d", offset, len(f.Document))
		}
		analysis := analyzer.Analyze(doc, offset)
		if f.Context.Token != "" {
			analysis.Context.Token = f.Context.Token
		}
		req.Context = analysis.Context
		req.Replacements = replace.NewComputer(doc, offset)
		req.Locator = analyzer.NewLocator(doc)
		candidates = append(analysis.Candidates, candidates...)
	}

	requestor := srv.Engine().NewRequestor(req)
	if err := requestor.AcceptAll(ctx, candidates); err != nil {
		return nil, err
	}
	return requestor.Complete(ctx)
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	file, err := os.Open(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to open fixture %s", args[0])
	}
	defer file.Close()

	fixture, err := LoadFixture(file)
	if err != nil {
		return err
	}

	var conn *sql.DB
	if rankDBPath != "" {
		conn, err = openDatabase(cfg, rankDBPath)
		if err != nil {
			return err
		}
		defer conn.Close()
	} else {
		copied := *cfg
		copied.Ranking.History.Enabled = false
		cfg = &copied
	}

	list, err := RunFixture(cmd.Context(), cfg, conn, fixture)
	if err != nil {
		return err
	}

	if rankJSON {
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal completion list")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	return renderList(list)
}

func renderList(list *complete.List) error {
	rows := pterm.TableData{{"#", "Label", "Kind", "SortText", "Detail"}}
	for i, item := range list.Items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.Label,
			itemKind(item),
			deref(item.SortText),
			deref(item.Detail),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}
	if list.IsIncomplete {
		pterm.Warning.Printf("List truncated to %d items\n", len(list.Items))
	}
	return nil
}

func itemKind(item complete.Item) string {
	if item.Kind == nil {
		return ""
	}
	return strconv.Itoa(int(*item.Kind))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
