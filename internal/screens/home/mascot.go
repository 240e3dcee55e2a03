package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/ui/theme"
)

// Growth is the stage of the home sprout, driven by lesson completion.
type Growth int

const (
	GrowthSeed Growth = iota
	GrowthSprout
	GrowthSapling
	GrowthTree
)

const seedArt = `

   .
 ~~~~~`

const sproutArt = `
   ,
  \|/
 ~~~~~`

const saplingArt = `  \ /
  -o-
  /|\
 ~~~~~`

const treeArt = `  ###
 #####
  \|/
 ~~~~~`

// GrowthFor maps a completion percentage to a growth stage.
func GrowthFor(percentage int) Growth {
	switch {
	case percentage >= 100:
		return GrowthTree
	case percentage >= 50:
		return GrowthSapling
	case percentage > 0:
		return GrowthSprout
	default:
		return GrowthSeed
	}
}

// RenderSprout returns the art for g.
func RenderSprout(g Growth) string {
	art, fg := seedArt, theme.TextDim
	switch g {
	case GrowthSprout:
		art, fg = sproutArt, theme.Success
	case GrowthSapling:
		art, fg = saplingArt, theme.Primary
	case GrowthTree:
		art, fg = treeArt, theme.Sun
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
