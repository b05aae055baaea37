package session

import "errors"

var errNoDownloader = errors.New("message has media but no downloader")
