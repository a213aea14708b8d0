// dump.go: walk an hdata list and print typed variable values
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	weechat "github.com/agilira/go-weechat"
	"github.com/agilira/go-weechat/memhost"
)

// cborEncMode encodes records deterministically.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cli: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// DumpOptions holds the flags of the dump command.
type DumpOptions struct {
	Fixture string
	Schema  string
	List    string
	Fields  []string
	From    int
	Count   int
}

// Record is one list element as printed by dump.
type Record struct {
	Index  int           `json:"index"`
	Fields []RecordField `json:"fields"`
}

// RecordField is one variable of a Record. Value is nil when the variable
// is absent or of an unsupported kind.
type RecordField struct {
	Name  string `json:"name"`
	Kind  string `json:"kind,omitempty"`
	Value any    `json:"value"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print variables of every element of an hdata list",
		Long: `Walk the list --list of schema --schema from its head, starting --from
elements in, and print the requested variables of up to --count elements
(0 means until the end of the list).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), rootOpts, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "host fixture file")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "hdata schema name")
	cmd.Flags().StringVar(&opts.List, "list", "", "list name of the schema")
	cmd.Flags().StringArrayVar(&opts.Fields, "field", nil, "variable to print (repeatable)")
	cmd.Flags().IntVar(&opts.From, "from", 0, "number of elements to skip")
	cmd.Flags().IntVar(&opts.Count, "count", 0, "maximum number of elements")
	_ = cmd.MarkFlagRequired("fixture")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("list")

	return cmd
}

func runDump(ctx context.Context, rootOpts *RootOptions, opts *DumpOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.From < 0 {
		return fmt.Errorf("--from cannot be negative")
	}

	config := weechat.DefaultConfig()
	if rootOpts.Config != "" {
		loaded, err := weechat.LoadConfigFromFile(rootOpts.Config)
		if err != nil {
			return err
		}
		config = loaded
	}

	var logger weechat.Logger = weechat.NewNoOpLogger()
	if rootOpts.Verbose {
		zl, err := weechat.NewZapLogger("debug")
		if err != nil {
			return err
		}
		defer func() { _ = zl.Sync() }()
		logger = zl
	}

	host, ids, err := memhost.LoadFixture(opts.Fixture)
	if err != nil {
		return err
	}
	names := make(map[weechat.Address]string, len(ids))
	for id, addr := range ids {
		names[addr] = id
	}

	w := weechat.NewWeechat(host, logger)
	dispatcher, err := weechat.NewDispatcher(w, config)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = dispatcher.Run(runCtx) }()
	defer dispatcher.Close()

	type result struct {
		records []Record
		err     error
	}
	res, err := weechat.OnMainBlocking(ctx, dispatcher, func(token weechat.MainToken) result {
		records, err := walk(token.Weechat(), opts, names)
		return result{records: records, err: err}
	})
	if err != nil {
		return err
	}
	if res.err != nil {
		return res.err
	}

	switch rootOpts.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.records)
	case "cbor":
		data, err := cborEncMode.Marshal(res.records)
		if err != nil {
			return fmt.Errorf("cli: marshal records: %w", err)
		}
		_, err = out.Write(data)
		return err
	default:
		return writeText(out, res.records)
	}
}

// walk runs on the main context.
func walk(w *weechat.Weechat, opts *DumpOptions, names map[weechat.Address]string) ([]Record, error) {
	ptr, ok := w.ListHead(opts.Schema, opts.List)
	if !ok {
		return nil, fmt.Errorf("list %q of schema %q not found", opts.List, opts.Schema)
	}

	if opts.From > 0 {
		table, ok := ptr.GetHData(opts.Schema)
		if !ok {
			return nil, fmt.Errorf("schema %q not found", opts.Schema)
		}
		if ptr, ok = ptr.Advance(table, opts.From); !ok {
			return []Record{}, nil
		}
	}

	records := []Record{}
	for index := opts.From; ok; index++ {
		if opts.Count > 0 && len(records) >= opts.Count {
			break
		}

		table, found := ptr.GetHData(opts.Schema)
		if !found {
			return nil, fmt.Errorf("schema %q not found", opts.Schema)
		}

		record := Record{Index: index, Fields: make([]RecordField, 0, len(opts.Fields))}
		for _, name := range opts.Fields {
			record.Fields = append(record.Fields, readField(table, name, names))
		}
		records = append(records, record)

		ptr, ok = ptr.Advance(table, 1)
	}
	return records, nil
}

// readField picks the accessor matching the host-reported kind.
func readField(table *weechat.HData, name string, names map[weechat.Address]string) RecordField {
	field := RecordField{Name: name}

	kind, ok := table.Kind(name)
	if !ok {
		return field
	}
	field.Kind = kind.String()

	switch kind {
	case weechat.KindString:
		if v, ok := weechat.GetVar[string](table, name); ok {
			field.Value = v
		}
	case weechat.KindInteger:
		if v, ok := weechat.GetVar[int32](table, name); ok {
			field.Value = v
		}
	case weechat.KindLong:
		if v, ok := weechat.GetVar[int64](table, name); ok {
			field.Value = v
		}
	case weechat.KindChar:
		if v, ok := weechat.GetVar[byte](table, name); ok {
			field.Value = string([]byte{v})
		}
	case weechat.KindTime:
		if v, ok := weechat.GetVar[time.Time](table, name); ok {
			field.Value = v.Format(time.RFC3339)
		}
	case weechat.KindPointer:
		if v, ok := weechat.GetVar[*weechat.Pointer](table, name); ok {
			field.Value = pointerName(v, names)
		}
	}
	return field
}

// pointerRef prints unquoted in text output.
type pointerRef string

func pointerName(p *weechat.Pointer, names map[weechat.Address]string) pointerRef {
	if p.IsNull() {
		return "null"
	}
	if id, ok := names[p.Address()]; ok {
		return pointerRef("@" + id)
	}
	return pointerRef("0x" + strconv.FormatUint(uint64(p.Address()), 16))
}

func writeText(out io.Writer, records []Record) error {
	for _, r := range records {
		parts := make([]string, 0, len(r.Fields))
		for _, f := range r.Fields {
			parts = append(parts, f.Name+"="+textValue(f.Value))
		}
		if _, err := fmt.Fprintf(out, "[%d] %s\n", r.Index, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}

func textValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "<absent>"
	case string:
		return strconv.Quote(val)
	default:
		return fmt.Sprint(val)
	}
}
