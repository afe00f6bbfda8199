// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

/*
Package supervisor runs the recommender's long-lived services under a suture v4
supervisor tree.

The tree has three layers so a failure in one does not take down the others:

	RootSupervisor ("teastore-recommender")
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventSubscriberService (if NATS is enabled, build tag: nats)
	├── TrainingSupervisor ("training-layer")
	│   ├── RetrainService (startup and scheduled rounds)
	│   └── HistoryGCService (if round history is stored on disk)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing event subscriber is restarted with backoff while the API keeps
serving recommendations from the last published model.

Supervisor events (restarts, backoff, timeouts) are logged through sutureslog
using the slog bridge from the logging package:

	tree, err := supervisor.NewSupervisorTree(logging.NewComponentSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
