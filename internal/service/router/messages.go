package router

import (
	"fmt"
	"strings"

	"github.com/sandevgo/chatmtl/internal/core"
)

func Acknowledge(c core.Category) string {
	return fmt.Sprintf("Sure, I can provide information based on recent %s content. What do you want to know?", c.Name)
}

func ChooseCategory(categories core.Categories) string {
	return "Please choose a category first: " + EnumerateNames(categories) + "."
}

// EnumerateNames joins category names as "a, b, or c".
func EnumerateNames(categories core.Categories) string {
	names := categories.Names()
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
