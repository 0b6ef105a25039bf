// This file handles the logic for extracting metadata from file paths.
// A comic path is reduced to a best guess of series, issue, year and volume
// using a fixed sequence of pattern rules plus the parent folder name.

package library

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vrsandeep/comic-go/internal/models"
)

var (
	extensionRe = regexp.MustCompile(`\.[A-Za-z][A-Za-z0-9]{0,4}$`)
	yearRe      = regexp.MustCompile(`\(((?:19|20)\d{2})\)`)

	// Issue candidates are tried strongest prefix first: "#12", then
	// "issue 12", then a bare number not glued to a letter.
	issueRes = []*regexp.Regexp{
		regexp.MustCompile(`#\s*(\d{1,4}(?:\.\d{1,2})?)`),
		regexp.MustCompile(`(?i)issue\s*(\d{1,4}(?:\.\d{1,2})?)`),
		regexp.MustCompile(`(?:^|[^A-Za-z0-9])(\d{1,4}(?:\.\d{1,2})?)`),
	}
	volumeRe = regexp.MustCompile(`(?i)(?:^|[^A-Za-z])v(?:ol(?:ume)?)?\.?\s*(\d{1,3})`)

	separatorRe     = regexp.MustCompile(`[-.]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	genericFolderRe = regexp.MustCompile(`(?i)incoming|scans`)
)

// ParseFilename extracts series, issue, year and volume from a comic path.
// Both "/" and "\" are accepted as separators. Fields are extracted in the
// order year, issue, volume and each match is removed from the working
// string before the next pattern runs, so one token never fills two fields.
//
// For example: /library/Saga/Saga 061 (2023).cbz
// Series: Saga, Issue: 61, Year: 2023
func ParseFilename(path string) models.ParsedComicInfo {
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
	var info models.ParsedComicInfo
	if len(segments) == 0 {
		return info
	}

	filename := segments[len(segments)-1]
	folder := ""
	if len(segments) > 1 {
		folder = segments[len(segments)-2]
	}

	working := extensionRe.ReplaceAllString(filename, "")

	if loc := yearRe.FindStringSubmatchIndex(working); loc != nil {
		year, _ := strconv.Atoi(working[loc[2]:loc[3]])
		info.Year = &year
		working = consume(working, loc[0], loc[1])
	}

	for _, re := range issueRes {
		if loc := re.FindStringSubmatchIndex(working); loc != nil {
			issue := normalizeIssue(working[loc[2]:loc[3]])
			info.Issue = &issue
			working = consume(working, loc[0], loc[1])
			break
		}
	}

	if loc := volumeRe.FindStringSubmatchIndex(working); loc != nil {
		volume := working[loc[2]:loc[3]]
		info.Volume = &volume
		working = consume(working, loc[0], loc[1])
	}

	series := cleanSeriesName(working)
	if cleanedFolder := cleanSeriesName(folder); cleanedFolder != "" && !genericFolderRe.MatchString(cleanedFolder) {
		series = cleanedFolder
	}
	if series != "" {
		info.Series = &series
	}

	return info
}

// consume cuts s[start:end] out of s, leaving a space so the words on either
// side do not run together.
func consume(s string, start, end int) string {
	return s[:start] + " " + s[end:]
}

// normalizeIssue drops leading zeros from the integral part of an issue
// number while keeping any decimal suffix as written.
func normalizeIssue(raw string) string {
	whole, frac, hasFrac := strings.Cut(raw, ".")
	n, err := strconv.Atoi(whole)
	if err != nil {
		return raw
	}
	if hasFrac {
		return strconv.Itoa(n) + "." + frac
	}
	return strconv.Itoa(n)
}

func cleanSeriesName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = separatorRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
