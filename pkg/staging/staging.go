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

// Package staging keeps a temporary copy of a layer archive in S3 for the
// duration of one publish run, for archives too large to publish inline.
package staging

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/sealerio/layerpub/common"
	"github.com/sealerio/layerpub/pkg/artifact"
	"github.com/sealerio/layerpub/pkg/errdefs"
	"github.com/sealerio/layerpub/pkg/infra"
	"github.com/sealerio/layerpub/utils/progressbar"
)

// StagedObject references the staged copy of an archive.
type StagedObject struct {
	Bucket string `json:"bucket" yaml:"bucket"`
	Key    string `json:"key" yaml:"key"`
}

func (o StagedObject) String() string {
	return fmt.Sprintf("s3://%s/%s", o.Bucket, o.Key)
}

// ObjectKey is the staging key of a layer. It only depends on the layer name,
// so concurrent runs for the same layer share it and must be serialized.
func ObjectKey(layerName string) string {
	return layerName + common.StagingObjectSuffix
}

// API is the subset of the S3 client used for staging.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Store interface {
	// Upload stores the archive at path under key in bucket.
	Upload(ctx context.Context, path, bucket, key string) error
	// Delete removes the staged object.
	Delete(ctx context.Context, bucket, key string) error
}

type Options struct {
	// ShowProgress draws an upload progress bar on stderr.
	ShowProgress bool
}

type store struct {
	client API
	opts   Options
}

func NewStore(client API, opts Options) Store {
	return &store{client: client, opts: opts}
}

func (s *store) Upload(ctx context.Context, path, bucket, key string) error {
	obj := StagedObject{Bucket: bucket, Key: key}
	op := fmt.Sprintf("upload %s to %s", path, obj)

	f, err := artifact.Open(path)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return err
		}
		return errdefs.New(errdefs.KindUpload, op, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("failed to close %s: %v", path, err)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return errdefs.New(errdefs.KindUpload, op, err)
	}

	var body io.ReadSeeker = f
	var bar *progressbar.SeekableReader
	if s.opts.ShowProgress {
		bar = progressbar.NewSeekableReader(f, info.Size(), fmt.Sprintf("[uploading %s]", key))
		body = bar
	}

	logrus.Debugf("uploading %d bytes to %s", info.Size(), obj)
	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		if bar != nil {
			bar.Fail(err)
		}
		return errdefs.New(errdefs.KindUpload, op, err)
	}
	if err := infra.CheckResponse(out.ResultMetadata); err != nil {
		detail := infra.Serialize(out)
		logrus.Errorf("unexpected response while uploading to %s: %s", obj, detail)
		return errdefs.NewWithDetail(errdefs.KindUpload, op, detail, err)
	}

	logrus.Infof("succeeded in uploading layer archive to %s", obj)
	return nil
}

func (s *store) Delete(ctx context.Context, bucket, key string) error {
	obj := StagedObject{Bucket: bucket, Key: key}
	op := fmt.Sprintf("delete %s", obj)

	out, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errdefs.New(errdefs.KindCleanup, op, err)
	}
	if err := infra.CheckResponse(out.ResultMetadata); err != nil {
		detail := infra.Serialize(out)
		logrus.Errorf("unexpected response while deleting %s: %s", obj, detail)
		return errdefs.NewWithDetail(errdefs.KindCleanup, op, detail, err)
	}

	logrus.Infof("succeeded in deleting staged archive %s", obj)
	return nil
}
