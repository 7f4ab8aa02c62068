package core

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	debversion "github.com/knqyf263/go-deb-version"
	"github.com/rs/zerolog/log"

	"fomod-packager/internal/types"
)

// Validator checks a descriptor for problems that would break the
// installer (critical) or merely look wrong to users (advisory).
type Validator struct {
	CheckSources bool
}

func NewValidator(checkSources bool) Validator {
	return Validator{CheckSources: checkSources}
}

type warningCollector struct {
	warnings []types.ValidationWarning
}

func (c *warningCollector) critical(elem string, title string, format string, args ...any) {
	c.add(true, elem, title, fmt.Sprintf(format, args...))
}

func (c *warningCollector) advisory(elem string, title string, format string, args ...any) {
	c.add(false, elem, title, fmt.Sprintf(format, args...))
}

func (c *warningCollector) add(critical bool, elem string, title string, msg string) {
	c.warnings = append(c.warnings, types.ValidationWarning{
		Critical: critical,
		Elem:     elem,
		Title:    title,
		Msg:      msg,
	})
}

// Validate returns every finding for descriptor. Sources are looked up in
// fsys when CheckSources is set and fsys is not nil.
func (v Validator) Validate(descriptor types.PackageDescriptor, fsys fs.FS) []types.ValidationWarning {
	c := &warningCollector{}
	if !v.CheckSources {
		fsys = nil
	}
	validateMetadata(c, descriptor.Metadata)
	for _, element := range descriptor.Unsupported {
		c.advisory("Descriptor", "Unsupported element", "%s is dropped when the installer config is written", element)
	}

	if descriptor.PageOrder != "" && !descriptor.PageOrder.Valid() {
		c.advisory("Descriptor", "Unknown order", "page order %q is not recognised", descriptor.PageOrder)
	}
	if len(descriptor.Pages) == 0 {
		c.critical("Descriptor", "No pages", "the installer has no pages")
	}
	pageNames := map[string]bool{}
	for i, page := range descriptor.Pages {
		elem := fmt.Sprintf("Page '%s'", page.Name)
		if strings.TrimSpace(page.Name) == "" {
			elem = fmt.Sprintf("Page #%d", i+1)
			c.critical(elem, "Missing name", "page has no name")
		} else if pageNames[page.Name] {
			c.advisory(elem, "Duplicate page", "page name is used more than once")
		}
		pageNames[page.Name] = true
		validatePage(c, elem, page, fsys)
	}

	validateFiles(c, "Required files", descriptor.RequiredFiles, fsys)
	for i, rule := range descriptor.ConditionalFiles {
		validateConditional(c, fmt.Sprintf("Conditional rule #%d", i+1), rule, fsys)
	}
	return c.warnings
}

// Check validates and logs every warning, critical ones at error level.
// Any critical warning fails the check.
func (v Validator) Check(ctx context.Context, descriptor types.PackageDescriptor, fsys fs.FS) ([]types.ValidationWarning, error) {
	warnings := v.Validate(descriptor, fsys)
	logger := log.Ctx(ctx)
	critical := 0
	for _, warning := range warnings {
		if warning.Critical {
			critical++
			logger.Error().Msg(warning.String())
			continue
		}
		logger.Warn().Msg(warning.String())
	}
	if critical > 0 {
		return warnings, types.NewKindError(types.ErrorKindValidation, errbuilder.CodeFailedPrecondition,
			fmt.Sprintf("descriptor validation failed with %d critical warning(s)", critical), nil)
	}
	return warnings, nil
}

func validateMetadata(c *warningCollector, metadata types.DescriptorMetadata) {
	const elem = "Metadata"
	if strings.TrimSpace(metadata.Name) == "" {
		c.critical(elem, "Missing name", "package name is empty")
	}
	if strings.TrimSpace(metadata.Version) == "" {
		c.advisory(elem, "Missing version", "package version is empty")
	} else if _, err := debversion.NewVersion(metadata.Version); err != nil {
		c.advisory(elem, "Unorderable version", "version %q cannot be ordered: %v", metadata.Version, err)
	}
	if strings.TrimSpace(metadata.Author) == "" {
		c.advisory(elem, "Missing author", "package author is empty")
	}
}

func validatePage(c *warningCollector, elem string, page types.Page, fsys fs.FS) {
	if page.GroupOrder != "" && !page.GroupOrder.Valid() {
		c.advisory(elem, "Unknown order", "group order %q is not recognised", page.GroupOrder)
	}
	if len(page.Groups) == 0 {
		c.critical(elem, "No groups", "page has no groups")
		return
	}
	groupNames := map[string]bool{}
	for i, group := range page.Groups {
		groupElem := fmt.Sprintf("Group '%s/%s'", page.Name, group.Name)
		if strings.TrimSpace(group.Name) == "" {
			groupElem = fmt.Sprintf("Group '%s'#%d", page.Name, i+1)
			c.critical(groupElem, "Missing name", "group has no name")
		} else if groupNames[group.Name] {
			c.advisory(groupElem, "Duplicate group", "group name is used more than once on this page")
		}
		groupNames[group.Name] = true
		validateGroup(c, groupElem, page.Name+"/"+group.Name, group, fsys)
	}
}

func validateGroup(c *warningCollector, elem string, scope string, group types.Group, fsys fs.FS) {
	if !group.Type.Valid() {
		c.advisory(elem, "Unknown group type", "group type %q is not recognised", group.Type)
	}
	if group.OptionOrder != "" && !group.OptionOrder.Valid() {
		c.advisory(elem, "Unknown order", "option order %q is not recognised", group.OptionOrder)
	}
	if len(group.Options) == 0 {
		c.critical(elem, "No options", "group has no options")
		return
	}

	names := map[string]bool{}
	required, notUsable, nonRequired := 0, 0, 0
	for i, option := range group.Options {
		optionElem := fmt.Sprintf("Option '%s/%s'", scope, option.Name)
		if strings.TrimSpace(option.Name) == "" {
			optionElem = fmt.Sprintf("Option '%s'#%d", scope, i+1)
			c.critical(optionElem, "Missing name", "option has no name")
		} else if names[option.Name] {
			c.critical(optionElem, "Duplicate option", "option name is used more than once in this group")
		}
		names[option.Name] = true

		switch option.Type {
		case types.OptionTypeRequired:
			required++
		case types.OptionTypeNotUsable:
			notUsable++
			nonRequired++
		case "":
			nonRequired++
		default:
			if !option.Type.Valid() {
				c.advisory(optionElem, "Unknown option type", "option type %q is not recognised", option.Type)
			}
			nonRequired++
		}

		if len(option.Files) == 0 {
			c.critical(optionElem, "No files", "option installs no files")
			continue
		}
		validateFiles(c, optionElem, option.Files, fsys)
	}

	switch group.Type {
	case types.GroupTypeSelectExactlyOne, types.GroupTypeSelectAtMostOne:
		if required > 1 {
			c.critical(elem, "Conflicting required options",
				"%s group has %d required options", group.Type, required)
		}
	case types.GroupTypeSelectAll:
		if nonRequired > 0 {
			c.advisory(elem, "Optional options in SelectAll",
				"%d option(s) are not Required although every option is installed", nonRequired)
		}
	}
	switch group.Type {
	case types.GroupTypeSelectExactlyOne, types.GroupTypeSelectAtLeastOne:
		if notUsable == len(group.Options) {
			c.critical(elem, "No usable options",
				"%s group needs a selection but every option is NotUsable", group.Type)
		}
	}
}

func validateConditional(c *warningCollector, elem string, rule types.ConditionalFileRule, fsys fs.FS) {
	if rule.Operator != "" && !rule.Operator.Valid() {
		c.advisory(elem, "Unknown operator", "operator %q is not recognised", rule.Operator)
	}
	if len(rule.Conditions) == 0 {
		c.critical(elem, "No conditions", "conditional rule has no conditions")
	}
	for i, condition := range rule.Conditions {
		if strings.TrimSpace(condition.File) == "" {
			c.critical(elem, "Missing condition file", "condition #%d has no file", i+1)
		}
		if !condition.State.Valid() {
			c.advisory(elem, "Unknown file state", "condition #%d state %q is not recognised", i+1, condition.State)
		}
	}
	if len(rule.Files) == 0 {
		c.critical(elem, "No files", "conditional rule installs no files")
		return
	}
	validateFiles(c, elem, rule.Files, fsys)
}

func validateFiles(c *warningCollector, elem string, files []types.FileEntry, fsys fs.FS) {
	for i, file := range files {
		if strings.TrimSpace(file.Source) == "" {
			c.critical(elem, "Missing source", "file #%d has no source", i+1)
			continue
		}
		if !file.Folder && strings.TrimSpace(file.Destination) == "" {
			c.advisory(elem, "Missing destination", "file %q installs to the data root", file.Source)
		}
		if fsys != nil {
			checkSource(c, elem, file, fsys)
		}
	}
}

func checkSource(c *warningCollector, elem string, file types.FileEntry, fsys fs.FS) {
	name := path.Clean(strings.ReplaceAll(strings.TrimSpace(file.Source), `\`, "/"))
	if !fs.ValidPath(name) {
		c.critical(elem, "Invalid source", "source %q escapes the package root", file.Source)
		return
	}
	info, err := fs.Stat(fsys, name)
	if err != nil {
		c.critical(elem, "Missing source", "source %q does not exist in the package", file.Source)
		return
	}
	switch {
	case file.Folder && !info.IsDir():
		c.critical(elem, "Source is not a folder", "source %q is a file but installed as a folder", file.Source)
	case !file.Folder && info.IsDir():
		c.critical(elem, "Source is a folder", "source %q is a folder but installed as a file", file.Source)
	}
}
