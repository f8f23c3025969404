// Package simulation runs inspection policies over simulated shipment
// streams and averages the results of repeated runs.
//
// A Runner is built once from a configuration. Construction validates the
// inspection strategy, the release program, the pest arrangement and the
// shipment source, so a misconfigured policy fails before any shipment is
// processed. Each run then derives its own random streams from its seed
// (see package seed), which makes runs independent and lets RunMany execute
// them in parallel while reproducing sequential results exactly.
//
// Per shipment the pipeline is:
//
//	generate -> infest -> [preview] -> gate -> [inspect] -> record -> classify
//
// Scenario builds runners over scripted shipments for tests:
//
//	func TestFirstBoxMissesPest(t *testing.T) {
//	    r := simulation.MustScenarioRunner(t, simulation.Scenario{
//	        Name:       "first-box-clean",
//	        Inspection: config.InspectionConfig{Strategy: "first"},
//	        Runs:       [][]simulation.ShipmentSpec{{{Boxes: []bool{false, true}}}},
//	    })
//	    res, err := r.Run(context.Background(), simulation.Options{NumShipments: 1})
//	    ...
//	}
package simulation
