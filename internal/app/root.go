package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/oshokin/frb/frame"
	"github.com/oshokin/frb/fred"
	"github.com/oshokin/frb/internal/config"
	"github.com/oshokin/frb/internal/logger"
)

// Query describes a single endpoint call issued from the command line.
type Query struct {
	// Family is the resource family, such as "series".
	Family fred.Family
	// Name is the operation name within the family.
	Name string
	// Args holds the required and optional query parameters.
	Args fred.Params
	// NoCache bypasses the response cache for this run.
	NoCache bool
}

// ExecuteQueryCommand builds the FRED client from the configuration,
// runs the query and writes the shaped result to out.
func ExecuteQueryCommand(ctx context.Context, cfg *config.Config, query Query, out io.Writer) {
	client, err := NewClient(cfg, query.NoCache)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize FRED client: %v", err)
	}

	if err = RunQuery(ctx, client, query, out); err != nil {
		if fred.IsConfigurationError(err) {
			logger.Fatalf(ctx, "Invalid request: %v", err)
		}

		logger.Fatalf(ctx, "Request failed: %v", err)
	}
}

// NewClient creates a FRED client from the validated configuration.
func NewClient(cfg *config.Config, noCache bool) (*fred.Fred, error) {
	opts := []fred.Option{
		fred.WithAPIKey(cfg.APIKey),
		fred.WithResponseFormat(cfg.ParsedResponseFormat),
		fred.WithSSLVerify(cfg.SSLVerify),
		fred.WithBaseURL(cfg.BaseURL),
		fred.WithProxy(cfg.ParsedProxy),
		fred.WithTimeout(cfg.ParsedTimeout),
		fred.WithRateLimit(int(cfg.RateLimitCalls), cfg.ParsedRateLimitPeriod),
		fred.WithMaxLogLength(cfg.ParsedMaxLogLength),
	}

	if cfg.CacheEnabled && !noCache {
		opts = append(opts, fred.WithCache(cfg.CacheDir, cfg.ParsedCacheSize))
	}

	return fred.New(opts...)
}

// RunQuery issues the call described by query and writes its result to out.
func RunQuery(ctx context.Context, client *fred.Fred, query Query, out io.Writer) error {
	ctx = logger.WithKV(ctx, "command", string(query.Family)+" "+query.Name)

	logger.Debugf(ctx, "Calling endpoint with %d parameter(s)", len(query.Args))

	result, err := client.Call(ctx, query.Family, query.Name, query.Args)
	if err != nil {
		return err
	}

	return WriteResult(out, result)
}

// WriteResult prints a shaped result.
// Text formats are written verbatim, records as indented JSON,
// tables and arrays as tab-separated rows.
func WriteResult(out io.Writer, result *fred.Result) error {
	switch result.Format {
	case fred.FormatRecords:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(result.Records); err != nil {
			return fmt.Errorf("failed to encode records: %w", err)
		}

		return nil
	case fred.FormatTable:
		if err := result.Table.WriteDelimited(out, frame.Tab); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}

		return nil
	case fred.FormatArray:
		return writeValues(out, result.Values)
	case fred.FormatXML, fred.FormatJSON, fred.FormatCSV, fred.FormatTab, fred.FormatPipe:
		return writeText(out, result.Text)
	default:
		return fmt.Errorf("%w: %s", fred.ErrUnsupportedFormat, result.Format)
	}
}

func writeText(out io.Writer, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	if _, err := io.WriteString(out, text); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	return nil
}

func writeValues(out io.Writer, values [][]any) error {
	var builder strings.Builder

	for _, row := range values {
		for i, cell := range row {
			if i > 0 {
				builder.WriteByte('\t')
			}

			builder.WriteString(frame.FormatCell(cell))
		}

		builder.WriteByte('\n')
	}

	if _, err := io.WriteString(out, builder.String()); err != nil {
		return fmt.Errorf("failed to write values: %w", err)
	}

	return nil
}
