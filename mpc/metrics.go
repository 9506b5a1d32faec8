/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package mpc

import "github.com/prometheus/client_golang/prometheus"

const namespace = "mpcommit"
const subSystem = "mpc"

var (
	BuildTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "build_total",
			Help:      "Number of commitment trees built.",
		},
	)
	CollisionTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "collision_total",
			Help:      "Number of slot collisions that forced a tree widening.",
		},
	)
	DepthReached = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "depth_reached",
			Help:      "Final depth of built commitment trees.",
			Buckets:   prometheus.LinearBuckets(0, 1, 17),
		},
	)
)

// PrometheusCollectors returns the collectors of this package, ready to
// be registered by the host application.
func PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		BuildTotal,
		CollisionTotal,
		DepthReached,
	}
}
