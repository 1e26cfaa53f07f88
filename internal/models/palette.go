package models

// Palette holds the reserved state colours and the category palette
type Palette struct {
	Bookmark      string   `mapstructure:"bookmark" validate:"required,hexcolor"`
	Trash         string   `mapstructure:"trash" validate:"required,hexcolor"`
	Uncategorized string   `mapstructure:"uncategorized" validate:"required,hexcolor"`
	Categories    []string `mapstructure:"categories" validate:"min=1,dive,hexcolor"`
}

// DefaultPalette returns the built-in colours
func DefaultPalette() Palette {
	return Palette{
		Bookmark:      "#ff6b81",
		Trash:         "#2d2d2d",
		Uncategorized: "#0a362f",
		Categories: []string{
			"#ff6b6b", "#f06595", "#cc5de8", "#845ef7", "#5c7cfa",
			"#339af0", "#22b8cf", "#20c997", "#51cf66", "#94d82d",
			"#fcc419", "#ff922b", "#e8590c", "#868e96", "#495057",
		},
	}
}
