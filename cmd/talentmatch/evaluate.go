package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"talent-match/internal/config"
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/domain/matching"
	"talent-match/internal/export"
	"talent-match/internal/usecase"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate FILE",
	Short: "Score the candidates in a JSON request file (\"-\" reads stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().String("xlsx", "", "write the report as an XLSX workbook to this path instead of JSON")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	scoring, err := config.LoadScoring()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	req, err := readEvaluateRequest(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	uc := usecase.NewEvaluationUsecase(usecase.EvaluationDeps{
		Evaluator: matching.NewEvaluator(matching.NewScorer(scoring.Weights), scoring.ShortlistThreshold),
		Log:       log,
	})
	report, err := uc.Evaluate(cmd.Context(), req.Input())
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
		return writeWorkbook(path, report)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(dto.NewEvaluationReportResponse(report))
}

func readEvaluateRequest(stdin io.Reader, path string) (dto.EvaluateRequest, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return dto.EvaluateRequest{}, err
		}
		defer f.Close()
		r = f
	}

	var req dto.EvaluateRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return dto.EvaluateRequest{}, fmt.Errorf("decode %s: %w", path, err)
	}

	fields, err := dto.Validate(&req)
	if err != nil {
		return dto.EvaluateRequest{}, err
	}
	if len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, f.Field+" ("+f.Rule+")")
		}
		return dto.EvaluateRequest{}, fmt.Errorf("invalid request: %s", strings.Join(parts, ", "))
	}
	return req, nil
}

func writeWorkbook(path string, report matching.EvaluationReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteReport(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
