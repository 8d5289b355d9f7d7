// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simlog

import (
	"fmt"
	"regexp"
	"strconv"
)

var resultLine = regexp.MustCompile(
	`.*?\s+(?P<algo>[A-Za-z0-9_]+)` +
		`(?:-(?P<config>[A-Za-z0-9_.-]+))?` +
		`\s+cache size\s+(?P<cache_size>\d+),\s+` +
		`(?P<requests>\d+)\s+req,\s+miss ratio\s+(?P<miss_ratio>\d+(?:\.\d+)?),\s+` +
		`throughput\s+(?P<throughput>\d+(?:\.\d+)?)\s+MQPS,\s+promotion\s+(?P<promotion>\d+)`)

var (
	subAlgo      = resultLine.SubexpIndex("algo")
	subConfig    = resultLine.SubexpIndex("config")
	subCacheSize = resultLine.SubexpIndex("cache_size")
	subRequests  = resultLine.SubexpIndex("requests")
	subMissRatio = resultLine.SubexpIndex("miss_ratio")
	subPromotion = resultLine.SubexpIndex("promotion")
)

// lineMatch holds the raw fields of a result line. The throughput is
// not kept.
type lineMatch struct {
	algo      string
	config    string
	hasConfig bool

	cacheSize, requests, missRatio, promotion string
}

func matchLine(line string) (lineMatch, bool) {
	idx := resultLine.FindStringSubmatchIndex(line)
	if idx == nil {
		return lineMatch{}, false
	}
	group := func(i int) string {
		if idx[2*i] < 0 {
			return ""
		}
		return line[idx[2*i]:idx[2*i+1]]
	}
	return lineMatch{
		algo:      group(subAlgo),
		config:    group(subConfig),
		hasConfig: idx[2*subConfig] >= 0,
		cacheSize: group(subCacheSize),
		requests:  group(subRequests),
		missRatio: group(subMissRatio),
		promotion: group(subPromotion),
	}, true
}

func parseInt(what, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", what, s, err)
	}
	return v, nil
}

func parseFloat(what, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", what, s, err)
	}
	return v, nil
}
