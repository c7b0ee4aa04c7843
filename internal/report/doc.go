// Package report renders analysis results for people and for tools.
//
// Results are reduced to plain summaries (Comminution, Mixing) first so that
// no raster outlives the analysis. Two writers are provided: MarkdownWriter
// builds tables with nao1215/markdown and JSONWriter emits the summaries
// as JSON. Headline statistics are rounded to two decimals.
package report
