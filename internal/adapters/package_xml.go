package adapters

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"fomod-packager/internal/ports"
	"fomod-packager/internal/types"
)

const (
	FomodDir           = "fomod"
	InfoXMLName        = "info.xml"
	ModuleConfigName   = "ModuleConfig.xml"
	moduleConfigSchema = "http://qconsulting.ca/fo3/ModConfig5.0.xsd"
	xmlSchemaInstance  = "http://www.w3.org/2001/XMLSchema-instance"
)

// FomodXMLAdapter maps PackageDescriptor to the ModConfig 5.0 documents
// mod managers read from a package's fomod directory.
type FomodXMLAdapter struct{}

func NewFomodXMLAdapter() FomodXMLAdapter {
	return FomodXMLAdapter{}
}

type infoXML struct {
	XMLName     xml.Name `xml:"fomod"`
	Name        string   `xml:"Name"`
	Author      string   `xml:"Author"`
	Version     string   `xml:"Version"`
	Description string   `xml:"Description"`
	Website     string   `xml:"Website"`
}

type moduleConfigXML struct {
	XMLName              xml.Name            `xml:"config"`
	XSI                  string              `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation       string              `xml:"xsi:noNamespaceSchemaLocation,attr,omitempty"`
	ModuleName           string              `xml:"moduleName"`
	RequiredInstallFiles *fileListXML        `xml:"requiredInstallFiles,omitempty"`
	InstallSteps         *installStepsXML    `xml:"installSteps,omitempty"`
	ConditionalInstalls  *conditionalListXML `xml:"conditionalFileInstalls,omitempty"`
	Extra                []unsupportedXML    `xml:",any"`
}

// unsupportedXML catches elements the descriptor model has no field for so
// Parse can report them. Write never produces them.
type unsupportedXML struct {
	XMLName xml.Name
}

// fileListXML keeps <file> and <folder> children in document order.
type fileListXML struct {
	Items []fileItemXML `xml:",any"`
}

type fileItemXML struct {
	XMLName     xml.Name
	Source      string `xml:"source,attr"`
	Destination string `xml:"destination,attr"`
	Priority    int    `xml:"priority,attr"`
}

type installStepsXML struct {
	Order string           `xml:"order,attr,omitempty"`
	Steps []installStepXML `xml:"installStep"`
}

type installStepXML struct {
	Name   string           `xml:"name,attr"`
	Groups groupsBlockXML   `xml:"optionalFileGroups"`
	Extra  []unsupportedXML `xml:",any"`
}

type groupsBlockXML struct {
	Order  string     `xml:"order,attr,omitempty"`
	Groups []groupXML `xml:"group"`
}

type groupXML struct {
	Name    string           `xml:"name,attr"`
	Type    string           `xml:"type,attr"`
	Plugins pluginsBlockXML  `xml:"plugins"`
	Extra   []unsupportedXML `xml:",any"`
}

type pluginsBlockXML struct {
	Order   string      `xml:"order,attr,omitempty"`
	Plugins []pluginXML `xml:"plugin"`
}

type pluginXML struct {
	Name           string            `xml:"name,attr"`
	Description    string            `xml:"description"`
	Image          *imageXML         `xml:"image,omitempty"`
	Files          *fileListXML      `xml:"files,omitempty"`
	TypeDescriptor typeDescriptorXML `xml:"typeDescriptor"`
	Extra          []unsupportedXML  `xml:",any"`
}

type imageXML struct {
	Path string `xml:"path,attr"`
}

type typeDescriptorXML struct {
	Type  typeXML          `xml:"type"`
	Extra []unsupportedXML `xml:",any"`
}

type typeXML struct {
	Name string `xml:"name,attr"`
}

type conditionalListXML struct {
	Patterns []patternXML `xml:"patterns>pattern"`
}

type patternXML struct {
	Dependencies dependenciesXML `xml:"dependencies"`
	Files        fileListXML     `xml:"files"`
}

type dependenciesXML struct {
	Operator string              `xml:"operator,attr,omitempty"`
	Files    []fileDependencyXML `xml:"fileDependency"`
}

type fileDependencyXML struct {
	File  string `xml:"file,attr"`
	State string `xml:"state,attr"`
}

func (a FomodXMLAdapter) Parse(packageDir string) (types.PackageDescriptor, error) {
	configPath := filepath.Join(packageDir, FomodDir, ModuleConfigName)
	content, err := os.ReadFile(configPath)
	if err != nil {
		return types.PackageDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read " + ModuleConfigName).
			WithCause(err)
	}
	var config moduleConfigXML
	if err := xml.Unmarshal(content, &config); err != nil {
		return types.PackageDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse " + ModuleConfigName).
			WithCause(err)
	}
	descriptor := descriptorFromXML(config)

	infoFile, err := os.Open(filepath.Join(packageDir, FomodDir, InfoXMLName))
	if err != nil {
		if os.IsNotExist(err) {
			descriptor.Metadata.Name = strings.TrimSpace(config.ModuleName)
			return descriptor, nil
		}
		return types.PackageDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read " + InfoXMLName).
			WithCause(err)
	}
	defer infoFile.Close()
	metadata, err := a.DecodeInfo(infoFile)
	if err != nil {
		return types.PackageDescriptor{}, err
	}
	if metadata.Name == "" {
		metadata.Name = strings.TrimSpace(config.ModuleName)
	}
	descriptor.Metadata = metadata
	return descriptor, nil
}

func (a FomodXMLAdapter) DecodeInfo(r io.Reader) (types.DescriptorMetadata, error) {
	var info infoXML
	if err := xml.NewDecoder(r).Decode(&info); err != nil {
		return types.DescriptorMetadata{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse " + InfoXMLName).
			WithCause(err)
	}
	return types.DescriptorMetadata{
		Name:        strings.TrimSpace(info.Name),
		Author:      strings.TrimSpace(info.Author),
		Version:     strings.TrimSpace(info.Version),
		Description: strings.TrimSpace(info.Description),
		Website:     strings.TrimSpace(info.Website),
	}, nil
}

func (a FomodXMLAdapter) Write(descriptor types.PackageDescriptor, packageDir string) error {
	fomodDir := filepath.Join(packageDir, FomodDir)
	if err := os.MkdirAll(fomodDir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create fomod directory").
			WithCause(err)
	}
	meta := descriptor.Metadata
	info := infoXML{
		Name:        meta.Name,
		Author:      meta.Author,
		Version:     meta.Version,
		Description: meta.Description,
		Website:     meta.Website,
	}
	if err := writeXMLFile(filepath.Join(fomodDir, InfoXMLName), info); err != nil {
		return err
	}
	return writeXMLFile(filepath.Join(fomodDir, ModuleConfigName), descriptorToXML(descriptor))
}

func writeXMLFile(path string, doc any) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode " + filepath.Base(path)).
			WithCause(err)
	}
	buf.WriteString("\n")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + filepath.Base(path)).
			WithCause(err)
	}
	return nil
}

func descriptorFromXML(config moduleConfigXML) types.PackageDescriptor {
	descriptor := types.PackageDescriptor{}
	unsupported := func(scope string, extra []unsupportedXML) {
		for _, element := range extra {
			descriptor.Unsupported = append(descriptor.Unsupported, scope+"/"+element.XMLName.Local)
		}
	}
	unsupported("config", config.Extra)
	if config.RequiredInstallFiles != nil {
		descriptor.RequiredFiles = filesFromXML(*config.RequiredInstallFiles)
	}
	if config.InstallSteps != nil {
		descriptor.PageOrder = types.Order(config.InstallSteps.Order)
		for _, step := range config.InstallSteps.Steps {
			page := types.Page{
				Name:       strings.TrimSpace(step.Name),
				GroupOrder: types.Order(step.Groups.Order),
			}
			unsupported("installStep '"+page.Name+"'", step.Extra)
			for _, group := range step.Groups.Groups {
				g := types.Group{
					Name:        strings.TrimSpace(group.Name),
					Type:        types.GroupType(group.Type),
					OptionOrder: types.Order(group.Plugins.Order),
				}
				unsupported("group '"+page.Name+"/"+g.Name+"'", group.Extra)
				for _, plugin := range group.Plugins.Plugins {
					option := types.Option{
						Name:        strings.TrimSpace(plugin.Name),
						Description: strings.TrimSpace(plugin.Description),
						Type:        types.OptionType(plugin.TypeDescriptor.Type.Name),
					}
					pluginScope := "plugin '" + page.Name + "/" + g.Name + "/" + option.Name + "'"
					unsupported(pluginScope, plugin.Extra)
					unsupported(pluginScope+"/typeDescriptor", plugin.TypeDescriptor.Extra)
					if plugin.Image != nil {
						option.Image = plugin.Image.Path
					}
					if plugin.Files != nil {
						option.Files = filesFromXML(*plugin.Files)
					}
					g.Options = append(g.Options, option)
				}
				page.Groups = append(page.Groups, g)
			}
			descriptor.Pages = append(descriptor.Pages, page)
		}
	}
	if config.ConditionalInstalls != nil {
		for _, pattern := range config.ConditionalInstalls.Patterns {
			rule := types.ConditionalFileRule{
				Operator: types.ConditionOperator(pattern.Dependencies.Operator),
				Files:    filesFromXML(pattern.Files),
			}
			for _, dep := range pattern.Dependencies.Files {
				rule.Conditions = append(rule.Conditions, types.FileCondition{
					File:  dep.File,
					State: types.FileState(dep.State),
				})
			}
			descriptor.ConditionalFiles = append(descriptor.ConditionalFiles, rule)
		}
	}
	return descriptor
}

func filesFromXML(list fileListXML) []types.FileEntry {
	var files []types.FileEntry
	for _, item := range list.Items {
		switch item.XMLName.Local {
		case "file", "folder":
		default:
			continue
		}
		files = append(files, types.FileEntry{
			Source:      item.Source,
			Destination: item.Destination,
			Folder:      item.XMLName.Local == "folder",
			Priority:    item.Priority,
		})
	}
	return files
}

func descriptorToXML(descriptor types.PackageDescriptor) moduleConfigXML {
	config := moduleConfigXML{
		XSI:            xmlSchemaInstance,
		SchemaLocation: moduleConfigSchema,
		ModuleName:     descriptor.Metadata.Name,
	}
	if len(descriptor.RequiredFiles) > 0 {
		config.RequiredInstallFiles = filesToXML(descriptor.RequiredFiles)
	}
	if len(descriptor.Pages) > 0 {
		steps := &installStepsXML{Order: orderOrDefault(descriptor.PageOrder)}
		for _, page := range descriptor.Pages {
			step := installStepXML{
				Name:   page.Name,
				Groups: groupsBlockXML{Order: orderOrDefault(page.GroupOrder)},
			}
			for _, group := range page.Groups {
				g := groupXML{
					Name:    group.Name,
					Type:    string(group.Type),
					Plugins: pluginsBlockXML{Order: orderOrDefault(group.OptionOrder)},
				}
				for _, option := range group.Options {
					plugin := pluginXML{
						Name:        option.Name,
						Description: option.Description,
						TypeDescriptor: typeDescriptorXML{
							Type: typeXML{Name: string(optionTypeOrDefault(option.Type))},
						},
					}
					if option.Image != "" {
						plugin.Image = &imageXML{Path: option.Image}
					}
					if len(option.Files) > 0 {
						plugin.Files = filesToXML(option.Files)
					}
					g.Plugins.Plugins = append(g.Plugins.Plugins, plugin)
				}
				step.Groups.Groups = append(step.Groups.Groups, g)
			}
			steps.Steps = append(steps.Steps, step)
		}
		config.InstallSteps = steps
	}
	if len(descriptor.ConditionalFiles) > 0 {
		list := &conditionalListXML{}
		for _, rule := range descriptor.ConditionalFiles {
			pattern := patternXML{
				Dependencies: dependenciesXML{Operator: string(operatorOrDefault(rule.Operator))},
			}
			for _, condition := range rule.Conditions {
				pattern.Dependencies.Files = append(pattern.Dependencies.Files, fileDependencyXML{
					File:  condition.File,
					State: string(condition.State),
				})
			}
			if files := filesToXML(rule.Files); files != nil {
				pattern.Files = *files
			}
			list.Patterns = append(list.Patterns, pattern)
		}
		config.ConditionalInstalls = list
	}
	return config
}

func filesToXML(files []types.FileEntry) *fileListXML {
	if len(files) == 0 {
		return nil
	}
	list := &fileListXML{}
	for _, file := range files {
		name := "file"
		if file.Folder {
			name = "folder"
		}
		list.Items = append(list.Items, fileItemXML{
			XMLName:     xml.Name{Local: name},
			Source:      file.Source,
			Destination: file.Destination,
			Priority:    file.Priority,
		})
	}
	return list
}

func orderOrDefault(order types.Order) string {
	if order == "" {
		return string(types.OrderExplicit)
	}
	return string(order)
}

func optionTypeOrDefault(kind types.OptionType) types.OptionType {
	if kind == "" {
		return types.OptionTypeOptional
	}
	return kind
}

func operatorOrDefault(op types.ConditionOperator) types.ConditionOperator {
	if op == "" {
		return types.ConditionOperatorAnd
	}
	return op
}

var _ ports.DescriptorPort = FomodXMLAdapter{}
