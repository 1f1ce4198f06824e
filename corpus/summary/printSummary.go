package summary

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/jfrog/jfrog-cli-core/v2/utils/coreutils"
	"github.com/jfrog/jfrog-cli-corpus/corpus/commands"
	"github.com/jfrog/jfrog-client-go/utils/errorutils"
	"github.com/jfrog/jfrog-client-go/utils/log"
)

const (
	FormatJson    = "json"
	FormatTable   = "table"
	FormatConsole = "console"

	statusOk     = "OK"
	statusFailed = "FAILED"
)

var SupportedFormats = []string{FormatConsole, FormatTable, FormatJson}

type SetupResultsWriter struct {
	result *commands.SetupResult
	format string
}

func NewSetupResultsWriter(result *commands.SetupResult, format string) *SetupResultsWriter {
	return &SetupResultsWriter{result: result, format: format}
}

func IsSupportedFormat(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (rw *SetupResultsWriter) Print() error {
	if rw.result == nil {
		return nil
	}
	switch rw.format {
	case FormatJson:
		return rw.PrintJson()
	case FormatTable:
		return rw.PrintDashboard()
	default:
		return rw.PrintConsole()
	}
}

type stepSummary struct {
	Step     string   `json:"step" display:"Step"`
	Status   string   `json:"status" display:"Status"`
	Attempts int      `json:"attempts" display:"Attempts"`
	Duration string   `json:"duration" display:"Duration"`
	Command  []string `json:"command" display:"Command"`
	Error    string   `json:"error,omitempty" display:"Error"`
}

type setupSummary struct {
	RunId    string        `json:"runId"`
	Python   string        `json:"python"`
	Policy   string        `json:"policy"`
	Duration string        `json:"duration"`
	Steps    []stepSummary `json:"steps"`
}

func newSetupSummary(result *commands.SetupResult) setupSummary {
	summary := setupSummary{
		RunId:    result.RunId,
		Python:   result.Python,
		Policy:   string(result.Policy),
		Duration: result.Duration.String(),
		Steps:    []stepSummary{},
	}
	for _, step := range result.Steps {
		ss := stepSummary{
			Step:     string(step.Step),
			Status:   statusOk,
			Attempts: step.Attempts,
			Duration: step.Duration.String(),
			Command:  step.Command,
		}
		if !step.Succeeded() {
			ss.Status = statusFailed
			ss.Error = step.Err.Error()
		}
		summary.Steps = append(summary.Steps, ss)
	}
	return summary
}

func (rw *SetupResultsWriter) PrintJson() error {
	jsonBytes, err := json.MarshalIndent(newSetupSummary(rw.result), "", "  ")
	if err != nil {
		return errorutils.CheckError(err)
	}
	log.Output(string(jsonBytes))
	return nil
}

type TableRow struct {
	Metric string `col-name:"Step"`
	Value  string `col-name:"Status"`
}

func (rw *SetupResultsWriter) PrintDashboard() error {
	summary := newSetupSummary(rw.result)
	err := coreutils.PrintTableWithBorderless(createStepRows(summary), text.FgCyan.Sprint("Corpus Setup "+summary.RunId), "", "No steps were run", false)
	if err != nil {
		log.Error("Failed to print corpus setup table:", err)
		return err
	}
	log.Output()
	return nil
}

func createStepRows(summary setupSummary) []TableRow {
	var rows []TableRow
	for _, step := range summary.Steps {
		value := text.FgGreen.Sprint(step.Status)
		if step.Status == statusFailed {
			value = text.FgRed.Sprint(step.Status + ": " + step.Error)
		}
		rows = append(rows, TableRow{
			Metric: text.FgHiBlue.Sprint(step.Step),
			Value:  value,
		})
	}
	return rows
}

func (rw *SetupResultsWriter) PrintConsole() error {
	summary := newSetupSummary(rw.result)
	log.Output(fmt.Sprintf("--- Corpus Setup (run %s, python %s, policy %s) ---", summary.RunId, summary.Python, summary.Policy))
	if len(summary.Steps) == 0 {
		log.Output("No steps were run")
		return nil
	}
	for _, step := range summary.Steps {
		log.Output(FormatWithDisplayTags(step))
	}
	if failed := len(rw.result.Failed()); failed > 0 {
		log.Output(text.FgYellow.Sprintf("%d of %d steps failed.", failed, len(summary.Steps)))
	}
	return nil
}

func FormatWithDisplayTags(v interface{}) string {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typeOfVal := val.Type()
	var builder strings.Builder
	for i := 0; i < val.NumField(); i++ {
		field := typeOfVal.Field(i)
		displayTag := field.Tag.Get("display")
		if displayTag == "" {
			continue
		}
		fieldValue := val.Field(i)
		if fieldValue.IsZero() {
			continue
		}
		if parts, ok := fieldValue.Interface().([]string); ok {
			builder.WriteString(fmt.Sprintf("%s: %s\n", displayTag, strings.Join(parts, " ")))
			continue
		}
		builder.WriteString(fmt.Sprintf("%s: %v\n", displayTag, fieldValue.Interface()))
	}
	return builder.String()
}
