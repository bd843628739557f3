package preprocess

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Book is the host's document tree. NonExhaustive round-trips the marker
// field the host serializes; it carries no information.
type Book struct {
	Sections      []BookItem      `json:"sections"`
	NonExhaustive json.RawMessage `json:"__non_exhaustive,omitempty"`
}

// Chapter is one document in the tree. Fields we do not touch must survive
// the round trip unchanged.
type Chapter struct {
	Name        string     `json:"name"`
	Content     string     `json:"content"`
	Number      []int      `json:"number"`
	SubItems    []BookItem `json:"sub_items"`
	Path        *string    `json:"path"`
	SourcePath  *string    `json:"source_path"`
	ParentNames []string   `json:"parent_names"`
}

// BookItem is the tree's tagged variant: a chapter, a separator, or a part
// title. Exactly one of the fields is meaningful.
type BookItem struct {
	Chapter   *Chapter
	Separator bool
	PartTitle string

	isPartTitle bool
}

// NewPartTitle builds a part-title item.
func NewPartTitle(title string) BookItem {
	return BookItem{PartTitle: title, isPartTitle: true}
}

// NewChapterItem wraps a chapter as a book item.
func NewChapterItem(ch *Chapter) BookItem {
	return BookItem{Chapter: ch}
}

func (i BookItem) MarshalJSON() ([]byte, error) {
	switch {
	case i.Chapter != nil:
		return json.Marshal(struct {
			Chapter *Chapter `json:"Chapter"`
		}{i.Chapter})
	case i.Separator:
		return json.Marshal("Separator")
	case i.isPartTitle:
		return json.Marshal(struct {
			PartTitle string `json:"PartTitle"`
		}{i.PartTitle})
	default:
		return nil, errors.New("book item has no variant set")
	}
}

func (i *BookItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "Separator" {
			return fmt.Errorf("unknown book item %q", s)
		}
		*i = BookItem{Separator: true}
		return nil
	}

	var obj struct {
		Chapter   *Chapter `json:"Chapter"`
		PartTitle *string  `json:"PartTitle"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode book item: %w", err)
	}
	switch {
	case obj.Chapter != nil:
		*i = BookItem{Chapter: obj.Chapter}
	case obj.PartTitle != nil:
		*i = BookItem{PartTitle: *obj.PartTitle, isPartTitle: true}
	default:
		return errors.New("book item has no recognized variant")
	}
	return nil
}

// ForEachChapter visits every chapter in document order, including nested
// sub-items, stopping at the first error.
func (b *Book) ForEachChapter(fn func(*Chapter) error) error {
	return walkItems(b.Sections, fn)
}

func walkItems(items []BookItem, fn func(*Chapter) error) error {
	for idx := range items {
		ch := items[idx].Chapter
		if ch == nil {
			continue
		}
		if err := fn(ch); err != nil {
			return err
		}
		if err := walkItems(ch.SubItems, fn); err != nil {
			return err
		}
	}
	return nil
}
