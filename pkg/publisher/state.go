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

package publisher

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sealerio/layerpub/pkg/errdefs"
	"github.com/sealerio/layerpub/pkg/layer"
	"github.com/sealerio/layerpub/pkg/staging"
)

type state int

const (
	stateStart state = iota
	stateSizeCheck
	stateDirectPublish
	stateStagedPublish
	statePublished
	stateRefresh
	stateDone
)

var stateNames = [...]string{
	stateStart:         "Start",
	stateSizeCheck:     "SizeCheck",
	stateDirectPublish: "DirectPublish",
	stateStagedPublish: "StagedPublish",
	statePublished:     "Published",
	stateRefresh:       "Refresh",
	stateDone:          "Done",
}

func (s state) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// run carries the state of a single Orchestrator.Run call.
type run struct {
	*Orchestrator
	opts   Options
	result *Result
}

func (r *run) step(ctx context.Context, s state) (state, error) {
	switch s {
	case stateStart:
		return r.start()
	case stateSizeCheck:
		return r.sizeCheck()
	case stateDirectPublish:
		return r.directPublish(ctx)
	case stateStagedPublish:
		return r.stagedPublish(ctx)
	case statePublished:
		return r.published()
	case stateRefresh:
		return r.refresh(ctx)
	default:
		return stateDone, fmt.Errorf("unknown publish state %s", s)
	}
}

func (r *run) start() (state, error) {
	if r.opts.LayerName == "" {
		return stateDone, errdefs.Configuration("layer name is required")
	}
	if r.opts.ArchivePath == "" {
		return stateDone, errdefs.Configuration("archive path is required")
	}
	return stateSizeCheck, nil
}

func (r *run) sizeCheck() (state, error) {
	size, err := r.inspector.Size(r.opts.ArchivePath)
	if err != nil {
		return stateDone, err
	}
	r.result.Size = size
	logrus.Infof("archive %s is %d bytes", r.opts.ArchivePath, size)

	if size <= r.opts.threshold() {
		return stateDirectPublish, nil
	}
	if r.opts.Bucket == "" {
		return stateDone, errdefs.Configuration("s3 bucket is required if layer size exceeds %d bytes (archive is %d bytes)",
			r.opts.threshold(), size)
	}
	return stateStagedPublish, nil
}

func (r *run) spec() layer.Spec {
	return layer.Spec{
		Name:          r.opts.LayerName,
		Description:   r.opts.Description,
		Architectures: r.opts.Architectures,
		Runtimes:      r.opts.Runtimes,
		ArchivePath:   r.opts.ArchivePath,
	}
}

func (r *run) directPublish(ctx context.Context) (state, error) {
	r.result.Path = PathDirect
	res, err := r.publisher.Publish(ctx, r.spec())
	if err != nil {
		return stateDone, err
	}
	r.result.Layer = res
	return statePublished, nil
}

func (r *run) stagedPublish(ctx context.Context) (state, error) {
	r.result.Path = PathStaged
	obj := staging.StagedObject{Bucket: r.opts.Bucket, Key: staging.ObjectKey(r.opts.LayerName)}
	r.result.Staged = &obj

	if err := r.store.Upload(ctx, r.opts.ArchivePath, obj.Bucket, obj.Key); err != nil {
		return stateDone, err
	}

	spec := r.spec()
	spec.Staged = &obj
	res, err := r.publisher.Publish(ctx, spec)
	if err != nil {
		logrus.Warnf("staged archive %s is left behind, remove it manually", obj)
		return stateDone, err
	}
	r.result.Layer = res

	err = r.store.Delete(ctx, obj.Bucket, obj.Key)
	switch {
	case err == nil:
	case !errdefs.IsFatal(err):
		logrus.Errorf("layer %s is published but %v", r.opts.LayerName, err)
		r.result.CleanupErr = err
	default:
		return stateDone, err
	}
	return statePublished, nil
}

func (r *run) published() (state, error) {
	if len(r.opts.Functions) == 0 {
		logrus.Infof("no functions to refresh for layer %s", r.opts.LayerName)
		return stateDone, nil
	}
	return stateRefresh, nil
}

func (r *run) refresh(ctx context.Context) (state, error) {
	results, err := r.refresher.Refresh(ctx, r.opts.Functions, r.result.Layer.LayerVersionArn)
	if err != nil {
		return stateDone, err
	}
	r.result.Refreshed = results
	return stateDone, nil
}
