package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/talentdex/internal/domain/career"
)

var careerCmd = &cobra.Command{
	Use:   "career",
	Short: "Convert career blobs between stored and structured form",
}

var careerDecodeCmd = &cobra.Command{
	Use:   "decode <work|education>",
	Short: "Decode a stored blob into JSON",
	Long:  "Reads a stored work-history or education blob from --in (or stdin) and prints the structured entries as JSON. Malformed sections are dropped.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCareerDecode,
}

var careerEncodeCmd = &cobra.Command{
	Use:   "encode <work|education>",
	Short: "Encode structured JSON into a stored blob",
	Long:  "Reads {\"summary\", \"work\"|\"education\"} JSON from --in (or stdin) and prints the stored blob.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCareerEncode,
}

var careerInput string

// careerDocument mirrors the HTTP career body.
type careerDocument struct {
	Summary   string                  `json:"summary,omitempty"`
	Work      []career.WorkEntry      `json:"work,omitempty"`
	Education []career.EducationEntry `json:"education,omitempty"`
}

func init() {
	careerCmd.PersistentFlags().StringVarP(&careerInput, "in", "i", "", "Input file (default: stdin)")
	careerCmd.AddCommand(careerDecodeCmd, careerEncodeCmd)
	rootCmd.AddCommand(careerCmd)
}

func readCareerInput(cmd *cobra.Command) ([]byte, error) {
	if careerInput == "" || careerInput == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(careerInput)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", careerInput, err)
	}
	return data, nil
}

func runCareerDecode(cmd *cobra.Command, args []string) error {
	data, err := readCareerInput(cmd)
	if err != nil {
		return err
	}

	decoded, err := career.Decode(career.Kind(args[0]), strings.TrimRight(string(data), "\r\n"))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	out, err := json.MarshalIndent(careerDocument{
		Summary:   decoded.Summary,
		Work:      decoded.Work,
		Education: decoded.Education,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal career JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runCareerEncode(cmd *cobra.Command, args []string) error {
	data, err := readCareerInput(cmd)
	if err != nil {
		return err
	}

	var doc careerDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal career JSON: %w", err)
	}

	blob, err := career.Encode(career.Kind(args[0]), career.Decoded{
		Summary:   doc.Summary,
		Work:      doc.Work,
		Education: doc.Education,
	})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), blob)
	return nil
}
