// Package ocr reads the tiles, the bonus squares and the rack of a game
// screenshot by template matching.
//
// A Recognizer holds two immutable template sets: letter templates for
// tiles and bonus templates for the score-multiplier squares. Recognize
// segments a gray screenshot with package layout, flags the occupied board
// cells and classifies every occupied cell, every rack cell and every
// marked empty square.
//
// # Matching
//
// A cell interior is compared with each template at every offset where
// the template fits, scoring with the normalized sum of squared
// differences:
//
//	score = Σ(I−T)² / sqrt(ΣI² · ΣT²)
//
// Lower is better and a perfect match scores 0. The template with the
// strictly lowest score wins, so of two equal scores the template that
// comes first in the set wins.
//
// # Blank and Wildcard Tiles
//
// A nearly white cell with little variation is a blank tile and is
// reported as "*" without matching. A tile whose top-right corner is
// uniformly light carries no score: it is a wildcard, and its letter is
// reported in upper case. Other letters are reported in lower case.
//
// # Templates
//
// Templates are loaded from a directory or any fs.FS, one image per
// template, ordered by file name. The file name without extension is the
// label. All templates in a set must have the same size. HarvestTemplates
// cuts new letter templates from a screenshot whose board is known.
//
// # Concurrency
//
// A Recognizer is safe for concurrent use: it holds no mutable state and
// every call to Recognize builds its own tables.
//
// # Error Handling
//
// Recognize returns the segmentation errors of package layout unchanged.
// RecognizeFile and RecognizeBytes additionally return *imaging.DecodeError
// for unreadable screenshots. Template loading errors are *TemplateError.
// No partial result is ever returned.
package ocr
