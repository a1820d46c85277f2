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

// Package publisher decides how a layer archive is published and sequences
// the steps of a run: size check, optional S3 staging, publish, cleanup and
// consumer refresh.
package publisher

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sealerio/layerpub/common"
	"github.com/sealerio/layerpub/pkg/artifact"
	"github.com/sealerio/layerpub/pkg/consumer"
	"github.com/sealerio/layerpub/pkg/infra"
	"github.com/sealerio/layerpub/pkg/layer"
	"github.com/sealerio/layerpub/pkg/staging"
)

type Path string

const (
	PathDirect Path = "direct"
	PathStaged Path = "staged"
)

type Options struct {
	LayerName     string
	Description   string
	ArchivePath   string
	Architectures []string
	Runtimes      []string
	// Bucket is only required when the archive is above the threshold.
	Bucket string
	// Functions is the explicit consumer set, empty skips the refresh.
	Functions []string
	// Threshold overrides common.InlinePublishThreshold when positive.
	Threshold int64
}

func (o Options) threshold() int64 {
	if o.Threshold > 0 {
		return o.Threshold
	}
	return common.InlinePublishThreshold
}

type Result struct {
	Path      Path                     `json:"path" yaml:"path"`
	Size      int64                    `json:"size" yaml:"size"`
	Layer     *layer.PublishResult     `json:"layer" yaml:"layer"`
	Staged    *staging.StagedObject    `json:"staged,omitempty" yaml:"staged,omitempty"`
	Refreshed []consumer.RefreshResult `json:"refreshed,omitempty" yaml:"refreshed,omitempty"`
	// CleanupErr is set when the staged object could not be removed. The
	// layer is published regardless.
	CleanupErr error `json:"-" yaml:"-"`
}

type Orchestrator struct {
	inspector artifact.Inspector
	publisher layer.Publisher
	store     staging.Store
	refresher consumer.Refresher
}

func New(inspector artifact.Inspector, publisher layer.Publisher, store staging.Store, refresher consumer.Refresher) *Orchestrator {
	return &Orchestrator{
		inspector: inspector,
		publisher: publisher,
		store:     store,
		refresher: refresher,
	}
}

// NewWithClientFactory wires every component to the clients of one run.
func NewWithClientFactory(f *infra.ClientFactory, stagingOpts staging.Options) *Orchestrator {
	lambdaClient := f.Lambda()
	return New(
		artifact.NewInspector(),
		layer.NewPublisher(lambdaClient),
		staging.NewStore(f.S3(), stagingOpts),
		consumer.NewRefresher(lambdaClient),
	)
}

// Run publishes the layer described by opts. Any error aborts the remaining
// steps, except a failed cleanup of the staged object which is only reported
// on the result.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Result, error) {
	r := &run{Orchestrator: o, opts: opts, result: &Result{}}

	current := stateStart
	for current != stateDone {
		next, err := r.step(ctx, current)
		if err != nil {
			logrus.Debugf("publish of layer %s aborted in state %s", opts.LayerName, current)
			return nil, err
		}
		logrus.Debugf("layer %s: %s -> %s", opts.LayerName, current, next)
		current = next
	}
	return r.result, nil
}
