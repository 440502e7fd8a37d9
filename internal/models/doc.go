// Package models defines the persistent records of lyrx.
//
// A [Play] is written once per identification cycle when history is enabled.
// It carries the item's title, artist, type and the cycle's [PlayStatus]; it
// never carries lyric text.
package models
