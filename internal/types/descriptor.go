package types

// DescriptorMetadata is the info block shown by mod managers.
type DescriptorMetadata struct {
	Name        string
	Author      string
	Version     string
	Description string
	Website     string
}

// FileEntry installs Source (relative to the package root) at Destination
// (relative to the game data directory). Folder entries copy a directory.
type FileEntry struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Folder      bool   `yaml:"folder,omitempty"`
	Priority    int    `yaml:"priority,omitempty"`
}

type Option struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Image       string      `yaml:"image,omitempty"`
	Files       []FileEntry `yaml:"files"`
	Type        OptionType  `yaml:"type,omitempty"`
}

type Group struct {
	Name        string    `yaml:"name"`
	Type        GroupType `yaml:"type"`
	OptionOrder Order     `yaml:"order,omitempty"`
	Options     []Option  `yaml:"options"`
}

type Page struct {
	Name       string  `yaml:"name"`
	GroupOrder Order   `yaml:"order,omitempty"`
	Groups     []Group `yaml:"groups"`
}

type FileCondition struct {
	File  string    `yaml:"file"`
	State FileState `yaml:"state"`
}

// ConditionalFileRule installs Files regardless of wizard choices when its
// conditions hold at install time.
type ConditionalFileRule struct {
	Operator   ConditionOperator `yaml:"operator,omitempty"`
	Conditions []FileCondition   `yaml:"conditions"`
	Files      []FileEntry       `yaml:"files"`
}

// PackageDescriptor is the declarative installer tree serialized into the
// package's fomod directory.
type PackageDescriptor struct {
	Metadata         DescriptorMetadata
	PageOrder        Order
	Pages            []Page
	RequiredFiles    []FileEntry
	ConditionalFiles []ConditionalFileRule
	// Unsupported lists template elements, as "scope/element", that Parse
	// found but Write does not reproduce.
	Unsupported []string
}

// Clone returns a deep copy so builders never share slices with their input.
// Nil slices stay nil.
func (d PackageDescriptor) Clone() PackageDescriptor {
	out := d
	out.Pages = cloneEach(d.Pages, func(page Page) Page {
		page.Groups = cloneEach(page.Groups, func(group Group) Group {
			group.Options = cloneEach(group.Options, func(option Option) Option {
				option.Files = cloneEach(option.Files, nil)
				return option
			})
			return group
		})
		return page
	})
	out.RequiredFiles = cloneEach(d.RequiredFiles, nil)
	out.Unsupported = cloneEach(d.Unsupported, nil)
	out.ConditionalFiles = cloneEach(d.ConditionalFiles, func(rule ConditionalFileRule) ConditionalFileRule {
		rule.Conditions = cloneEach(rule.Conditions, nil)
		rule.Files = cloneEach(rule.Files, nil)
		return rule
	})
	return out
}

func cloneEach[T any](in []T, deep func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, item := range in {
		if deep != nil {
			item = deep(item)
		}
		out[i] = item
	}
	return out
}

// FindPage returns the first page with the given name.
func (d PackageDescriptor) FindPage(name string) (Page, bool) {
	for _, page := range d.Pages {
		if page.Name == name {
			return page, true
		}
	}
	return Page{}, false
}
