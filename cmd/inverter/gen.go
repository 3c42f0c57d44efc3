package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inverter/avro"
	"inverter/esmapping"
	"inverter/internal/define"
	"inverter/jsonschema"
	"inverter/relational"
	"inverter/typespec"
	"inverter/vschema"
)

var genFlags struct {
	file      string
	record    string
	target    string
	policy    string
	namespace string
	table     string
	out       string
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a target schema for one record",
	Long: `Generate converts a record definition into the requested target form.

Targets:
  vschema      validation schema (--policy native|json|avro|search)
  avro         Avro record schema (--namespace)
  jsonschema   JSON Schema document
  relational   CREATE TABLE plus index DDL (--table)
  esmapping    search index mapping`,
	RunE: runGen,
}

func init() {
	genCmd.Flags().StringVarP(&genFlags.file, "file", "f", "", "record definition file (required)")
	genCmd.Flags().StringVarP(&genFlags.record, "record", "r", "", "record name (defaults to the only record in the file)")
	genCmd.Flags().StringVarP(&genFlags.target, "target", "t", "vschema", "conversion target")
	genCmd.Flags().StringVarP(&genFlags.policy, "policy", "p", "native", "vschema serialization policy")
	genCmd.Flags().StringVar(&genFlags.namespace, "namespace", "", "avro namespace")
	genCmd.Flags().StringVar(&genFlags.table, "table", "", "relational table name")
	genCmd.Flags().StringVarP(&genFlags.out, "out", "o", "", "output file (defaults to stdout)")

	_ = genCmd.MarkFlagRequired("file")
}

func runGen(cmd *cobra.Command, _ []string) error {
	rec, err := loadRecord(genFlags.file, genFlags.record)
	if err != nil {
		return err
	}

	logger.Debug("converting record",
		zap.String("record", rec.Name()),
		zap.String("target", genFlags.target))

	rendered, err := render(rec, genFlags.target)
	if err != nil {
		return err
	}

	if genFlags.out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	}

	return os.WriteFile(genFlags.out, []byte(rendered+"\n"), 0o644)
}

func render(rec *typespec.RecordType, target string) (string, error) {
	switch target {
	case "vschema":
		policy, ok := vschema.ParsePolicy(genFlags.policy)
		if !ok {
			return "", fmt.Errorf("unknown policy %q (native, json, avro, search)", genFlags.policy)
		}
		doc, err := vschema.Convert(rec, nil, vschema.WithPolicy(policy))
		if err != nil {
			return "", err
		}
		return marshal(doc)

	case "avro":
		var opts []avro.Option
		if genFlags.namespace != "" {
			opts = append(opts, avro.WithNamespace(genFlags.namespace))
		}
		doc, err := avro.Convert(rec, nil, opts...)
		if err != nil {
			return "", err
		}
		return marshal(doc)

	case "jsonschema":
		doc, err := jsonschema.Convert(rec, nil)
		if err != nil {
			return "", err
		}
		return marshal(doc)

	case "relational":
		var opts []relational.Option
		if genFlags.table != "" {
			opts = append(opts, relational.WithTableName(genFlags.table))
		}
		tbl, err := relational.Convert(rec, nil, opts...)
		if err != nil {
			return "", err
		}
		return tbl.DDL(), nil

	case "esmapping":
		doc, err := esmapping.Convert(rec, nil)
		if err != nil {
			return "", err
		}
		return marshal(doc)
	}

	return "", fmt.Errorf("unknown target %q", target)
}

func loadRecord(path, name string) (*typespec.RecordType, error) {
	set, err := define.Load(path)
	if err != nil {
		return nil, err
	}

	if name == "" {
		names := set.Names()
		if len(names) != 1 {
			return nil, fmt.Errorf("file defines %d records, pick one with --record", len(names))
		}
		name = names[0]
	}

	rec, ok := set.Get(name)
	if !ok {
		return nil, fmt.Errorf("record %q not found in %s", name, path)
	}

	return rec, nil
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
