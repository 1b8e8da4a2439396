package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	configurationKeySeparatorConstant        = "."
	environmentKeySeparatorConstant          = "_"
	workingDirectorySearchPathConstant       = "."
	listSeparatorConstant                    = ","
	embeddedLayerMergeErrorTemplateConstant  = "failed to merge built-in configuration: %w"
	fileLayerReadErrorTemplateConstant       = "failed to read configuration: %w"
	configurationDecodeErrorTemplateConstant = "failed to parse configuration: %w"
)

// DefaultSearchPaths lists the directories searched for a configuration file:
// the working directory, then <user config dir>/<applicationDirectoryName>.
func DefaultSearchPaths(applicationDirectoryName string) []string {
	searchPaths := []string{workingDirectorySearchPathConstant}
	userConfigurationDirectory, lookupError := os.UserConfigDir()
	if lookupError != nil || len(userConfigurationDirectory) == 0 {
		return searchPaths
	}
	return append(searchPaths, filepath.Join(userConfigurationDirectory, applicationDirectoryName))
}

// decodeHook converts environment strings into typed settings. LogLevel and
// LogFormat reject unknown values through UnmarshalText; comma separated
// strings become slices.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(listSeparatorConstant),
	)
}

type embeddedLayer struct {
	content     []byte
	contentType string
}

// ConfigurationLoader resolves settings from four layers, lowest precedence
// first: registered defaults, the built-in document, a configuration file and
// prefixed environment variables. Flags are applied later by the commands.
type ConfigurationLoader struct {
	fileName          string
	fileType          string
	environmentPrefix string
	searchPaths       []string
	embedded          embeddedLayer
}

// LoadedConfiguration describes where the resolved settings came from.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader for <fileName>.<fileType> found in searchPaths.
func NewConfigurationLoader(fileName string, fileType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		fileName:          fileName,
		fileType:          fileType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string(nil), searchPaths...),
	}
}

// SetEmbeddedConfiguration registers the built-in document. An empty type
// falls back to the loader's file type.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(content []byte, contentType string) {
	if loader == nil {
		return
	}
	loader.embedded = embeddedLayer{
		content:     append([]byte(nil), content...),
		contentType: strings.TrimSpace(contentType),
	}
}

// LoadConfiguration decodes the merged layers into target. An explicit
// configurationFilePath must exist; a file discovered through the search
// paths is optional.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, target any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	for key, value := range defaultValues {
		viperInstance.SetDefault(key, value)
	}

	if mergeError := loader.mergeEmbedded(viperInstance); mergeError != nil {
		return LoadedConfiguration{}, mergeError
	}
	if readError := loader.mergeFile(viperInstance, configurationFilePath); readError != nil {
		return LoadedConfiguration{}, readError
	}
	loader.bindEnvironment(viperInstance)

	if decodeError := viperInstance.Unmarshal(target, viper.DecodeHook(decodeHook())); decodeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationDecodeErrorTemplateConstant, decodeError)
	}
	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

func (loader *ConfigurationLoader) mergeEmbedded(viperInstance *viper.Viper) error {
	if len(loader.embedded.content) == 0 {
		return nil
	}
	contentType := loader.embedded.contentType
	if len(contentType) == 0 {
		contentType = loader.fileType
	}
	viperInstance.SetConfigType(contentType)
	if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embedded.content)); mergeError != nil {
		return fmt.Errorf(embeddedLayerMergeErrorTemplateConstant, mergeError)
	}
	return nil
}

func (loader *ConfigurationLoader) mergeFile(viperInstance *viper.Viper, configurationFilePath string) error {
	viperInstance.SetConfigType(loader.fileType)
	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	} else {
		viperInstance.SetConfigName(loader.fileName)
		for _, searchPath := range loader.searchPaths {
			viperInstance.AddConfigPath(searchPath)
		}
	}

	readError := viperInstance.MergeInConfig()
	var notFoundError viper.ConfigFileNotFoundError
	if readError == nil || errors.As(readError, &notFoundError) {
		return nil
	}
	return fmt.Errorf(fileLayerReadErrorTemplateConstant, readError)
}

func (loader *ConfigurationLoader) bindEnvironment(viperInstance *viper.Viper) {
	if len(loader.environmentPrefix) == 0 {
		return
	}
	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(configurationKeySeparatorConstant, environmentKeySeparatorConstant))
	viperInstance.AutomaticEnv()
}
