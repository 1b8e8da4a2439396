package validate_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/temirov/pathlint/internal/report"
	"github.com/temirov/pathlint/internal/validate"
	"github.com/temirov/pathlint/internal/walker"
)

const (
	validateSubtestNameTemplateConstant = "%d_%s"
	validateFileContentConstant         = "content"
	fixModeBannerPrefixConstant         = "!!! WARNING: Running in FIX mode"
	summaryHeaderTemplateConstant       = "\nValidation finished for: %s\n"
	reportFileNameConstant              = "report.yaml"
)

func createFiles(testInstance *testing.T, root string, names ...string) {
	testInstance.Helper()
	for _, name := range names {
		fullPath := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(testInstance, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(testInstance, os.WriteFile(fullPath, []byte(validateFileContentConstant), 0o644))
	}
}

func TestServiceRunOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name              string
		files             []string
		fix               bool
		expectedTotals    walker.Totals
		expectedError     error
		expectBanner      bool
		expectedSurvivors []string
	}{
		{
			name:           "compliant_tree",
			files:          []string{"docs/plan.docx", "notes.txt"},
			expectedTotals: walker.Totals{},
		},
		{
			name:              "report_mode_counts_errors",
			files:             []string{"CON.txt", "a:b.txt"},
			expectedTotals:    walker.Totals{Errors: 2},
			expectedError:     validate.ErrViolationsDetected,
			expectedSurvivors: []string{"CON.txt", "a:b.txt"},
		},
		{
			name:              "warnings_do_not_fail",
			files:             []string{"My File#1.txt"},
			expectedTotals:    walker.Totals{Warnings: 1},
			expectedSurvivors: []string{"My File#1.txt"},
		},
		{
			name:              "fix_mode_renames",
			files:             []string{"CON.txt", "My File#1.txt"},
			fix:               true,
			expectedTotals:    walker.Totals{Errors: 1, Warnings: 1, Renames: 2},
			expectedError:     validate.ErrViolationsDetected,
			expectBanner:      true,
			expectedSurvivors: []string{"CON__.txt", "My File_1.txt"},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(validateSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			root := testInstance.TempDir()
			createFiles(testInstance, root, testCase.files...)

			outputBuffer := &bytes.Buffer{}
			service := validate.NewService(nil, zap.NewNop(), outputBuffer, nil)
			totals, runError := service.Run(context.Background(), validate.Options{Root: root, Fix: testCase.fix})

			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, runError, testCase.expectedError)
			} else {
				require.NoError(testInstance, runError)
			}
			require.Equal(testInstance, testCase.expectedTotals, totals)
			require.Equal(testInstance, testCase.expectBanner, strings.HasPrefix(outputBuffer.String(), fixModeBannerPrefixConstant))
			require.Contains(testInstance, outputBuffer.String(), fmt.Sprintf(summaryHeaderTemplateConstant, root))

			for _, survivor := range testCase.expectedSurvivors {
				require.FileExists(testInstance, filepath.Join(root, survivor))
			}
		})
	}
}

func TestServiceRunRejectsInvalidConfiguration(testInstance *testing.T) {
	root := testInstance.TempDir()
	createFiles(testInstance, root, "file.txt")

	testCases := []struct {
		name            string
		options         validate.Options
		expectedMessage string
	}{
		{
			name:            "missing_root",
			options:         validate.Options{Root: filepath.Join(root, "missing")},
			expectedMessage: "Not a directory: " + filepath.Join(root, "missing"),
		},
		{
			name:            "file_root",
			options:         validate.Options{Root: filepath.Join(root, "file.txt")},
			expectedMessage: "Not a directory: " + filepath.Join(root, "file.txt"),
		},
		{
			name:            "negative_prefix",
			options:         validate.Options{Root: root, PrefixLength: -1},
			expectedMessage: "prefix length must be non-negative, got -1",
		},
		{
			name:            "negative_limit",
			options:         validate.Options{Root: root, MaxPathLength: -5},
			expectedMessage: "maximum path length must not be negative, got -5",
		},
		{
			name:            "malformed_exclusion",
			options:         validate.Options{Root: root, Exclude: []string{"docs/[a"}},
			expectedMessage: "invalid exclude pattern \"docs/[a\": syntax error in pattern",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(validateSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			service := validate.NewService(nil, nil, outputBuffer, nil)
			totals, runError := service.Run(context.Background(), testCase.options)

			require.Error(testInstance, runError)
			require.True(testInstance, validate.IsConfigurationError(runError))
			require.Equal(testInstance, testCase.expectedMessage, runError.Error())
			require.Equal(testInstance, walker.Totals{}, totals)
			require.Empty(testInstance, outputBuffer.String())
		})
	}
}

func TestServiceRunAppliesPrefixLength(testInstance *testing.T) {
	root := testInstance.TempDir()
	createFiles(testInstance, root, "plan.docx")

	outputBuffer := &bytes.Buffer{}
	service := validate.NewService(nil, nil, outputBuffer, nil)
	totals, runError := service.Run(context.Background(), validate.Options{Root: root, PrefixLength: 395})

	require.ErrorIs(testInstance, runError, validate.ErrViolationsDetected)
	require.Equal(testInstance, walker.Totals{Errors: 1}, totals)
	require.Contains(testInstance, outputBuffer.String(), "Path too long (404 > 400): plan.docx")
}

func TestServiceRunWritesReportFile(testInstance *testing.T) {
	root := testInstance.TempDir()
	createFiles(testInstance, root, "CON.txt", "fine.txt")
	reportPath := filepath.Join(testInstance.TempDir(), reportFileNameConstant)

	service := validate.NewService(nil, nil, io.Discard, nil).WithRunIdentifierProvider(func() string { return "run-7" })
	_, runError := service.Run(context.Background(), validate.Options{Root: root, ReportFile: reportPath, Exclude: []string{"*.log"}})
	require.ErrorIs(testInstance, runError, validate.ErrViolationsDetected)

	reportContent, readError := os.ReadFile(reportPath)
	require.NoError(testInstance, readError)

	var decoded report.RunReport
	require.NoError(testInstance, yaml.Unmarshal(reportContent, &decoded))
	require.Equal(testInstance, "run-7", decoded.RunID)
	require.Equal(testInstance, root, decoded.Root)
	require.Equal(testInstance, []string{"*.log"}, decoded.Exclude)
	require.Equal(testInstance, walker.Totals{Errors: 1}, decoded.Totals)
	require.Len(testInstance, decoded.Entries, 1)
	require.Equal(testInstance, "CON.txt", decoded.Entries[0].Path)
}

type failingWriteCloser struct {
	closeError error
}

func (writer *failingWriteCloser) Write(data []byte) (int, error) {
	return len(data), nil
}

func (writer *failingWriteCloser) Close() error {
	return writer.closeError
}

func TestServiceRunReportsReportFileFailures(testInstance *testing.T) {
	root := testInstance.TempDir()
	createFiles(testInstance, root, "fine.txt")
	creationError := errors.New("read-only filesystem")
	closeError := errors.New("disk full")

	testCases := []struct {
		name          string
		creator       validate.ReportFileCreator
		expectedError error
	}{
		{
			name: "create_failure",
			creator: func(string) (io.WriteCloser, error) {
				return nil, creationError
			},
			expectedError: creationError,
		},
		{
			name: "close_failure",
			creator: func(string) (io.WriteCloser, error) {
				return &failingWriteCloser{closeError: closeError}, nil
			},
			expectedError: closeError,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(validateSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			service := validate.NewService(nil, nil, io.Discard, testCase.creator)
			_, runError := service.Run(context.Background(), validate.Options{Root: root, ReportFile: reportFileNameConstant})
			require.ErrorIs(testInstance, runError, testCase.expectedError)
			require.False(testInstance, validate.IsConfigurationError(runError))
		})
	}
}

type renameRejectingFileSystem struct {
	walker.OSFileSystem
}

func (renameRejectingFileSystem) Rename(string, string) error {
	return os.ErrPermission
}

func TestServiceRunAbortsOnRenameFailure(testInstance *testing.T) {
	root := testInstance.TempDir()
	createFiles(testInstance, root, "CON.txt")

	outputBuffer := &bytes.Buffer{}
	service := validate.NewService(renameRejectingFileSystem{}, nil, outputBuffer, nil)
	_, runError := service.Run(context.Background(), validate.Options{Root: root, Fix: true})

	var renameError *walker.RenameError
	require.ErrorAs(testInstance, runError, &renameError)
	require.ErrorIs(testInstance, runError, os.ErrPermission)
	require.NotErrorIs(testInstance, runError, validate.ErrViolationsDetected)
	require.NotContains(testInstance, outputBuffer.String(), "Validation finished for:")
	require.FileExists(testInstance, filepath.Join(root, "CON.txt"))
}

func TestServiceRunLogsLifecycle(testInstance *testing.T) {
	root := testInstance.TempDir()
	createFiles(testInstance, root, "CON.txt")

	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	service := validate.NewService(nil, zap.New(observedCore), io.Discard, nil)
	_, runError := service.Run(context.Background(), validate.Options{Root: root, Fix: true})
	require.ErrorIs(testInstance, runError, validate.ErrViolationsDetected)

	startedEntries := observedLogs.FilterMessage("validation started").All()
	require.Len(testInstance, startedEntries, 1)
	require.Equal(testInstance, zapcore.InfoLevel, startedEntries[0].Level)
	require.Equal(testInstance, root, startedEntries[0].ContextMap()["root"])
	require.Equal(testInstance, true, startedEntries[0].ContextMap()["fix"])
	runIdentifier, isString := startedEntries[0].ContextMap()["run_id"].(string)
	require.True(testInstance, isString)
	_, parseError := uuid.Parse(runIdentifier)
	require.NoError(testInstance, parseError)

	finishedEntries := observedLogs.FilterMessage("validation finished").All()
	require.Len(testInstance, finishedEntries, 1)
	require.Equal(testInstance, int64(1), finishedEntries[0].ContextMap()["errors"])
	require.Equal(testInstance, int64(1), finishedEntries[0].ContextMap()["renamed"])
	require.Equal(testInstance, runIdentifier, finishedEntries[0].ContextMap()["run_id"])

	require.NotEmpty(testInstance, observedLogs.FilterLevelExact(zapcore.DebugLevel).All())
}

func TestServiceRunSkipsExcludedEntries(testInstance *testing.T) {
	root := testInstance.TempDir()
	createFiles(testInstance, root, "build/CON.txt", "cache/a:b.tmp", "keep/ok.txt")

	outputBuffer := &bytes.Buffer{}
	service := validate.NewService(nil, nil, outputBuffer, nil)
	totals, runError := service.Run(context.Background(), validate.Options{Root: root, Fix: true, Exclude: []string{"build", "**/*.tmp"}})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, walker.Totals{}, totals)
	require.NotContains(testInstance, outputBuffer.String(), "CON.txt")
	require.FileExists(testInstance, filepath.Join(root, "build", "CON.txt"))
	require.FileExists(testInstance, filepath.Join(root, "cache", "a:b.tmp"))
}

type closedStreamWriter struct{}

func (closedStreamWriter) Write([]byte) (int, error) {
	return 0, os.ErrClosed
}

func TestServiceRunReportsOutputStreamFailure(testInstance *testing.T) {
	root := testInstance.TempDir()
	createFiles(testInstance, root, "fine.txt")

	service := validate.NewService(nil, nil, closedStreamWriter{}, nil)
	totals, runError := service.Run(context.Background(), validate.Options{Root: root})

	require.ErrorIs(testInstance, runError, os.ErrClosed)
	require.False(testInstance, validate.IsConfigurationError(runError))
	require.Equal(testInstance, walker.Totals{}, totals)
}
