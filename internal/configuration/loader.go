package configuration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/temirov/vaihde/internal/utils"
	pathutils "github.com/temirov/vaihde/internal/utils/path"
)

const (
	configurationNameConstant              = "vaihde"
	configurationTypeConstant              = "toml"
	invalidConfigurationMessageConstant    = "invalid configuration"
	loadFailureTemplateConstant            = "%w: %s: %w"
	missingFieldTemplateConstant           = "%w: missing required field %q in %s"
	missingPostCommandRunTemplateConstant  = "%w: post command %d is missing required field %q in %s"
	worktreeRootResolutionTemplateConstant = "%w: worktree_root %q in %s: %w"
	worktreeRootFieldNameConstant          = "worktree_root"
	postCommandRunFieldNameConstant        = "run"
	postCommandShellFieldNameConstant      = "shell"
	postCommandsFieldNameConstant          = "post_commands"
	copySectionNameConstant                = "copy"
	copyFilesFieldNameConstant             = "files"
)

// ErrInvalidConfiguration indicates a configuration file could not be read, parsed, or validated.
var ErrInvalidConfiguration = errors.New(invalidConfigurationMessageConstant)

// PostCommand is a command executed inside a freshly created worktree.
type PostCommand struct {
	Run   string
	Shell bool
}

// Configuration is the validated content of a vaihde.toml file.
type Configuration struct {
	WorktreeRoot string
	CopyFiles    []string
	PostCommands []PostCommand
}

type configurationDocument struct {
	WorktreeRoot *string               `mapstructure:"worktree_root"`
	Copy         copyDocument          `mapstructure:"copy"`
	PostCommands []postCommandDocument `mapstructure:"post_commands"`
}

type copyDocument struct {
	Files []string `mapstructure:"files"`
}

type postCommandDocument struct {
	Run   *string `mapstructure:"run"`
	Shell bool    `mapstructure:"shell"`
}

// Loader reads vaihde.toml files.
type Loader struct {
	fileSystem   afero.Fs
	homeExpander *pathutils.HomeExpander
}

// NewLoader constructs a Loader. Nil arguments select the operating system defaults.
func NewLoader(fileSystem afero.Fs, homeExpander *pathutils.HomeExpander) *Loader {
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	return &Loader{fileSystem: fileSystem, homeExpander: homeExpander}
}

// Load reads the configuration at configurationPath using the operating system defaults.
func Load(configurationPath string) (Configuration, error) {
	return NewLoader(nil, nil).Load(configurationPath)
}

// Load parses and validates the configuration at configurationPath. Unknown keys are ignored.
func (loader *Loader) Load(configurationPath string) (Configuration, error) {
	configurationLoader := utils.NewConfigurationLoader(configurationNameConstant, configurationTypeConstant, "", nil)
	configurationLoader.SetFileSystem(loader.fileSystem)

	var document configurationDocument
	_, loadError := configurationLoader.LoadConfiguration(configurationPath, nil, &document, strictDecoding)
	if loadError != nil {
		return Configuration{}, fmt.Errorf(loadFailureTemplateConstant, ErrInvalidConfiguration, configurationPath, loadError)
	}

	rawDocument, rawError := loader.readRawDocument(configurationPath)
	if rawError != nil {
		return Configuration{}, fmt.Errorf(loadFailureTemplateConstant, ErrInvalidConfiguration, configurationPath, rawError)
	}
	retainExactKeys(&document, rawDocument)

	if document.WorktreeRoot == nil || len(strings.TrimSpace(*document.WorktreeRoot)) == 0 {
		return Configuration{}, fmt.Errorf(missingFieldTemplateConstant, ErrInvalidConfiguration, worktreeRootFieldNameConstant, configurationPath)
	}

	worktreeRoot, resolveError := loader.homeExpander.ResolveAbsolute(*document.WorktreeRoot)
	if resolveError != nil {
		return Configuration{}, fmt.Errorf(worktreeRootResolutionTemplateConstant, ErrInvalidConfiguration, *document.WorktreeRoot, configurationPath, resolveError)
	}

	configuration := Configuration{
		WorktreeRoot: worktreeRoot,
		CopyFiles:    append([]string{}, document.Copy.Files...),
		PostCommands: make([]PostCommand, 0, len(document.PostCommands)),
	}

	for commandIndex, commandDocument := range document.PostCommands {
		if commandDocument.Run == nil {
			return Configuration{}, fmt.Errorf(missingPostCommandRunTemplateConstant, ErrInvalidConfiguration, commandIndex+1, postCommandRunFieldNameConstant, configurationPath)
		}
		configuration.PostCommands = append(configuration.PostCommands, PostCommand{Run: *commandDocument.Run, Shell: commandDocument.Shell})
	}

	return configuration, nil
}

func (loader *Loader) readRawDocument(configurationPath string) (map[string]any, error) {
	fileSystem := loader.fileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	content, readError := afero.ReadFile(fileSystem, configurationPath)
	if readError != nil {
		return nil, readError
	}
	rawDocument := map[string]any{}
	if decodeError := toml.Unmarshal(content, &rawDocument); decodeError != nil {
		return nil, decodeError
	}
	return rawDocument, nil
}

// retainExactKeys drops values that viper matched only through case folding, since TOML keys are case-sensitive.
func retainExactKeys(document *configurationDocument, rawDocument map[string]any) {
	if _, present := rawDocument[worktreeRootFieldNameConstant]; !present {
		document.WorktreeRoot = nil
	}

	copyTable, _ := rawDocument[copySectionNameConstant].(map[string]any)
	if _, present := copyTable[copyFilesFieldNameConstant]; !present {
		document.Copy.Files = nil
	}

	rawCommands, _ := rawDocument[postCommandsFieldNameConstant].([]any)
	if len(rawCommands) != len(document.PostCommands) {
		document.PostCommands = nil
		return
	}
	for commandIndex, rawCommand := range rawCommands {
		commandTable, _ := rawCommand.(map[string]any)
		if _, present := commandTable[postCommandRunFieldNameConstant]; !present {
			document.PostCommands[commandIndex].Run = nil
		}
		if _, present := commandTable[postCommandShellFieldNameConstant]; !present {
			document.PostCommands[commandIndex].Shell = false
		}
	}
}

// strictDecoding rejects values of the wrong TOML type instead of coercing them.
func strictDecoding(decoderConfiguration *mapstructure.DecoderConfig) {
	decoderConfiguration.WeaklyTypedInput = false
}
