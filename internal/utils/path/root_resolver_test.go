package pathutils_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/pathlint/internal/utils/path"
)

const (
	testHomeDirectoryConstant               = "/home/tester"
	testRelativeDirectoryConstant           = "Documents/share"
	rootResolverSubtestNameTemplateConstant = "%d_%s"
)

func fixedHomeDirectory() (string, error) {
	return testHomeDirectoryConstant, nil
}

func joinWorkingDirectory(workingDirectory string) pathutils.AbsolutePathResolver {
	return func(candidate string) (string, error) {
		if filepath.IsAbs(candidate) {
			return candidate, nil
		}
		return filepath.Join(workingDirectory, candidate), nil
	}
}

func TestRootPathResolverResolve(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	resolver := pathutils.NewRootPathResolverWithDependencies(fixedHomeDirectory, joinWorkingDirectory(workingDirectory))

	testCases := []struct {
		name         string
		input        string
		expectedPath string
	}{
		{name: "absolute", input: "/srv/share/", expectedPath: "/srv/share"},
		{name: "relative", input: testRelativeDirectoryConstant, expectedPath: filepath.Join(workingDirectory, testRelativeDirectoryConstant)},
		{name: "trailing_space_kept", input: "/srv/backup ", expectedPath: "/srv/backup "},
		{name: "leading_space_kept", input: " " + testRelativeDirectoryConstant, expectedPath: filepath.Join(workingDirectory, " "+testRelativeDirectoryConstant)},
		{name: "home_shortcut", input: "~/" + testRelativeDirectoryConstant, expectedPath: filepath.Join(testHomeDirectoryConstant, testRelativeDirectoryConstant)},
		{name: "home_only", input: "~", expectedPath: testHomeDirectoryConstant},
		{name: "dot_segments_cleaned", input: "/srv/share/../archive/./2024", expectedPath: "/srv/archive/2024"},
		{name: "other_user_shortcut_untouched", input: "~alice/share", expectedPath: filepath.Join(workingDirectory, "~alice/share")},
		{name: "embedded_tilde_untouched", input: "/srv/~share", expectedPath: "/srv/~share"},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(rootResolverSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			resolvedPath, resolveError := resolver.Resolve(testCase.input)
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedPath, resolvedPath)
		})
	}
}

func TestRootPathResolverRejectsBlankInput(testInstance *testing.T) {
	resolver := pathutils.NewRootPathResolver()

	_, resolveError := resolver.Resolve(" \n")
	require.ErrorIs(testInstance, resolveError, pathutils.ErrEmptyRootPath)
}

func TestRootPathResolverWrapsAbsoluteFailures(testInstance *testing.T) {
	lookupError := errors.New("getwd failed")
	resolver := pathutils.NewRootPathResolverWithDependencies(nil, func(string) (string, error) {
		return "", lookupError
	})

	_, resolveError := resolver.Resolve("relative")
	require.ErrorIs(testInstance, resolveError, lookupError)
}

func TestRootPathResolverKeepsShortcutWhenHomeLookupFails(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	resolver := pathutils.NewRootPathResolverWithDependencies(func() (string, error) {
		return "", errors.New("no home")
	}, joinWorkingDirectory(workingDirectory))

	resolvedPath, resolveError := resolver.Resolve("~/share")
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, filepath.Join(workingDirectory, "~", "share"), resolvedPath)
}
