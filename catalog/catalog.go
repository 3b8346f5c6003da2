// Package catalog reads and writes library catalogs, the XML inventory
// format used by offline archive managers to describe a collection of
// archive files.
package catalog

import (
	"io"
	"path/filepath"
	"strconv"

	"github.com/beevik/etree"

	"github.com/fwojciec/zimsearch"
)

// libraryVersion identifies the catalog schema.
const libraryVersion = "20110515"

// Write serializes archive metadata as a library catalog document.
// Unreadable archives (Err set) are skipped; a catalog only describes
// usable books.
func Write(w io.Writer, infos []*zimsearch.ArchiveInfo) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	library := doc.CreateElement("library")
	library.CreateAttr("version", libraryVersion)

	for _, info := range infos {
		if info.Err != "" {
			continue
		}
		book := library.CreateElement("book")
		book.CreateAttr("id", info.UUID)
		book.CreateAttr("path", info.Path)
		book.CreateAttr("title", info.Title)
		if info.Description != "" {
			book.CreateAttr("description", info.Description)
		}
		if info.Creator != "" {
			book.CreateAttr("creator", info.Creator)
		}
		if info.Publisher != "" {
			book.CreateAttr("publisher", info.Publisher)
		}
		if info.Date != "" {
			book.CreateAttr("date", info.Date)
		}
		book.CreateAttr("articleCount", strconv.Itoa(info.ArticleCount))
		book.CreateAttr("mediaCount", strconv.Itoa(info.MediaCount))
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return zimsearch.Errorf(zimsearch.EINTERNAL, "writing catalog: %v", err)
	}
	return nil
}

// Read parses a library catalog document back into archive metadata.
// Counts that fail to parse are left at zero rather than failing the
// whole catalog.
func Read(r io.Reader) ([]*zimsearch.ArchiveInfo, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, zimsearch.Errorf(zimsearch.EINVALID, "parsing catalog XML: %v", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "library" {
		return nil, zimsearch.Errorf(zimsearch.EINVALID, "not a library catalog document")
	}

	var infos []*zimsearch.ArchiveInfo
	for _, book := range root.SelectElements("book") {
		info := &zimsearch.ArchiveInfo{
			UUID:         book.SelectAttrValue("id", ""),
			Path:         book.SelectAttrValue("path", ""),
			Title:        book.SelectAttrValue("title", ""),
			Description:  book.SelectAttrValue("description", ""),
			Creator:      book.SelectAttrValue("creator", ""),
			Publisher:    book.SelectAttrValue("publisher", ""),
			Date:         book.SelectAttrValue("date", ""),
			ArticleCount: atoi(book.SelectAttrValue("articleCount", "")),
			MediaCount:   atoi(book.SelectAttrValue("mediaCount", "")),
		}
		if info.Path != "" {
			info.Name = filepath.Base(info.Path)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
