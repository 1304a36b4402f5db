// Package extract turns a rendered article page into ordered course records.
//
// Three strategies read the same Document: "text" splits the visible page text
// into blocks at upper-case heading lines, "element" reads block elements that
// carry both a designer and an average-points label, and "walk" steps through
// the article paragraphs from one ranking badge to the next, pairing each
// course with the next image-caption block. A Coordinator runs the configured
// strategies and keeps whichever found the most records.
package extract
