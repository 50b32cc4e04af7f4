// CLAUDE:SUMMARY Groups cleaned pages into character-budget chunks preserving page-range metadata.
package distill

// textChunk is a budget-bounded unit of pipeline work. PageStart/PageEnd
// preserve the page range for evidence citation; a single oversized page is
// split across several chunks that share the same page number.
type textChunk struct {
	FileName  string
	PageStart int
	PageEnd   int
	Pages     []cleanedPage
}

// chunkSource groups a document's cleaned pages into sequential chunks of at
// most maxChars. Per-page line association is kept intact so evidence stays
// page-precise.
func chunkSource(fileName string, cleaned []cleanedPage, maxChars int) []textChunk {
	var chunks []textChunk
	cur := textChunk{FileName: fileName}
	curChars := 0

	flush := func() {
		if len(cur.Pages) > 0 {
			chunks = append(chunks, cur)
		}
		cur = textChunk{FileName: fileName}
		curChars = 0
	}

	appendPage := func(cp cleanedPage) {
		if len(cur.Pages) == 0 {
			cur.PageStart = cp.Page
		}
		cur.PageEnd = cp.Page
		cur.Pages = append(cur.Pages, cp)
	}

	for _, cp := range cleaned {
		size := pageChars(cp)

		if size > maxChars {
			// Oversized page: flush the buffer, then split the page's
			// lines across chunks that keep the same page number.
			flush()
			part := cleanedPage{FileName: cp.FileName, Page: cp.Page}
			partChars := 0
			for _, line := range cp.Lines {
				if partChars > 0 && partChars+len(line) > maxChars {
					appendPage(part)
					flush()
					part = cleanedPage{FileName: cp.FileName, Page: cp.Page}
					partChars = 0
				}
				part.Lines = append(part.Lines, line)
				partChars += len(line) + 1
			}
			if len(part.Lines) > 0 {
				appendPage(part)
				flush()
			}
			continue
		}

		if curChars > 0 && curChars+size > maxChars {
			flush()
		}
		appendPage(cp)
		curChars += size
	}
	flush()
	return chunks
}

func pageChars(cp cleanedPage) int {
	n := 0
	for _, l := range cp.Lines {
		n += len(l) + 1
	}
	return n
}
