package models

type Category struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	IsDefault bool   `db:"is_default"`
}

// CategoryChanges holds the fields of a partial category update; nil means untouched.
type CategoryChanges struct {
	Name      *string
	IsDefault *bool
}

func (c CategoryChanges) Empty() bool {
	return c.Name == nil && c.IsDefault == nil
}

func (c *Category) Apply(ch CategoryChanges) {
	if ch.Name != nil {
		c.Name = *ch.Name
	}
	if ch.IsDefault != nil {
		c.IsDefault = *ch.IsDefault
	}
}
