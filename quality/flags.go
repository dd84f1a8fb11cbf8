// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package quality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/venicegeo/bf-sr-explorer/model"
)

// Category is one named bit of a quality flag field
type Category struct {
	Name string
	Mask int64
}

// CategoryTable maps flag names to bit masks
type CategoryTable struct {
	categories []Category
	byName     map[string]int64
}

// NewCategoryTable builds a table, rejecting duplicate names and empty masks
func NewCategoryTable(categories []Category) (*CategoryTable, error) {
	table := &CategoryTable{byName: map[string]int64{}}
	for _, c := range categories {
		if c.Mask == 0 {
			return nil, fmt.Errorf("flag %q has an empty mask", c.Name)
		}
		if _, ok := table.byName[c.Name]; ok {
			return nil, fmt.Errorf("flag %q declared twice", c.Name)
		}
		table.byName[c.Name] = c.Mask
		table.categories = append(table.categories, c)
	}
	return table, nil
}

// ParseCategoryTable builds a table from the flag_meanings / flag_masks
// attribute pair carried by CF-style flag variables
func ParseCategoryTable(meanings string, masks []int64) (*CategoryTable, error) {
	names := strings.Fields(meanings)
	if len(names) != len(masks) {
		return nil, fmt.Errorf("%d flag meanings for %d flag masks", len(names), len(masks))
	}
	categories := make([]Category, len(names))
	for i, name := range names {
		categories[i] = Category{Name: name, Mask: masks[i]}
	}
	return NewCategoryTable(categories)
}

// Lookup returns the bit mask for a flag name
func (t *CategoryTable) Lookup(name string) (int64, error) {
	mask, ok := t.byName[name]
	if !ok {
		return 0, &model.UnknownFlagError{Flag: name, Known: t.Names()}
	}
	return mask, nil
}

// Names returns the flag names in sorted order
func (t *CategoryTable) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decode returns the names of every category active in value, in table order
func (t *CategoryTable) Decode(value int64) []string {
	active := []string{}
	for _, c := range t.categories {
		if value&c.Mask != 0 {
			active = append(active, c.Name)
		}
	}
	return active
}

// TableFor returns the table declared by a flag field's attributes, falling
// back to L2Flags when it declares none
func TableFor(field *model.FlagField) (*CategoryTable, error) {
	if field.Meanings == "" && len(field.Masks) == 0 {
		return L2Flags, nil
	}
	return ParseCategoryTable(field.Meanings, field.Masks)
}

// L2Flags is the standard OBPG Level-2 l2_flags table
var L2Flags = mustTable([]Category{
	{"ATMFAIL", 1 << 0},
	{"LAND", 1 << 1},
	{"PRODWARN", 1 << 2},
	{"HIGLINT", 1 << 3},
	{"HILT", 1 << 4},
	{"HISATZEN", 1 << 5},
	{"COASTZ", 1 << 6},
	{"SPARE", 1 << 7},
	{"STRAYLIGHT", 1 << 8},
	{"CLDICE", 1 << 9},
	{"COCCOLITH", 1 << 10},
	{"TURBIDW", 1 << 11},
	{"HISOLZEN", 1 << 12},
	{"LOWLW", 1 << 14},
	{"CHLFAIL", 1 << 15},
	{"NAVWARN", 1 << 16},
	{"ABSAER", 1 << 17},
	{"MAXAERITER", 1 << 19},
	{"MODGLINT", 1 << 20},
	{"CHLWARN", 1 << 21},
	{"ATMWARN", 1 << 22},
	{"SEAICE", 1 << 24},
	{"NAVFAIL", 1 << 25},
	{"FILTER", 1 << 26},
	{"BOWTIEDEL", 1 << 28},
	{"HIPOL", 1 << 29},
	{"PRODFAIL", 1 << 30},
})

func mustTable(categories []Category) *CategoryTable {
	table, err := NewCategoryTable(categories)
	if err != nil {
		panic(err)
	}
	return table
}
