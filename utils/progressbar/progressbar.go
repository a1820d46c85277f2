// Copyright © 2022 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package progressbar

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

type EasyProgressUtil struct {
	progressbar.ProgressBar
}

var (
	width                  = 50
	optionEnableColorCodes = progressbar.OptionEnableColorCodes(true)
	optionSetWidth         = progressbar.OptionSetWidth(width)
	optionShowCount        = progressbar.OptionShowCount()
	optionShowBytes        = progressbar.OptionShowBytes(true)
	optionSetWriter        = progressbar.OptionSetWriter(os.Stderr)
	optionSetTheme         = progressbar.OptionSetTheme(progressbar.Theme{
		Saucer:        "=",
		SaucerHead:    ">",
		SaucerPadding: " ",
		BarStart:      "[",
		BarEnd:        "]",
	})
)

// NewEasyProgressUtil create a new progress bar like this:
// [uploading libs.zip]  94% [==============================================>   ] (14 MB/15 MB, 6 MB/s) [3s:0s]
func NewEasyProgressUtil(total int64, describe string) *EasyProgressUtil {
	return &EasyProgressUtil{
		*progressbar.NewOptions64(total,
			optionEnableColorCodes,
			optionSetWidth,
			optionSetTheme,
			optionShowCount,
			optionShowBytes,
			optionSetWriter,
			progressbar.OptionSetDescription(describe),
		),
	}
}

// Add64 add n to progress bar
func (epu *EasyProgressUtil) Add64(n int64) {
	if err := epu.ProgressBar.Add64(n); err != nil {
		logrus.Errorf("failed to increment progress bar, err: %s", err)
	}
}

// Fail print error message
func (epu *EasyProgressUtil) Fail(err error) {
	if err != nil {
		epu.Describe(err.Error())
	}
}

// SeekableReader reports read progress on a bar while keeping the wrapped
// reader seekable, the S3 client rewinds the body to sign it.
type SeekableReader struct {
	io.ReadSeeker
	bar *EasyProgressUtil
}

func NewSeekableReader(r io.ReadSeeker, total int64, describe string) *SeekableReader {
	return &SeekableReader{
		ReadSeeker: r,
		bar:        NewEasyProgressUtil(total, describe),
	}
}

func (r *SeekableReader) Read(p []byte) (int, error) {
	n, err := r.ReadSeeker.Read(p)
	r.bar.Add64(int64(n))
	return n, err
}

func (r *SeekableReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := r.ReadSeeker.Seek(offset, whence)
	if err == nil {
		if setErr := r.bar.Set64(pos); setErr != nil {
			logrus.Errorf("failed to reset progress bar, err: %s", setErr)
		}
	}
	return pos, err
}

// Fail marks the bar as failed with err.
func (r *SeekableReader) Fail(err error) {
	r.bar.Fail(err)
}
