// Package spotlight is the gesture interpretation and transform engine of an
// image viewer overlay.
//
// A [Viewer] turns raw device input (wheel, pointer, touch, platform pinch
// and key events) into a target [Transform] for the displayed image, and
// smooths the rendered transform toward it once per frame. Rendering is left
// to the host: read [Viewer.ImageMatrix], [Viewer.ChromeOpacity] and the
// label accessors each frame and draw them however you like. The
// ebitenview subpackage does this with Ebitengine.
//
// # Quick start
//
//	v := spotlight.New(spotlight.Options{
//		Store:  spotlight.NewFileStore(prefsPath),
//		Logger: spotlight.NewLogger(os.Stderr, "info"),
//	})
//	v.SetCollections(collections)
//	v.OnLoad = func(req spotlight.LoadRequest) {
//		// decode req.Item.Src, then:
//		v.ImageLoaded(req.Seq, w, h)
//	}
//	v.SetViewport(1280, 800)
//	_ = v.OpenAt(0, 0)
//
// Feed input as it arrives with [Viewer.Dispatch] or the typed Handle
// methods, and call [Viewer.Update] once per frame.
//
// # Time
//
// Every debounce, cooldown and idle timer runs on an internal [Scheduler]
// driven by the timestamps of incoming events and by the time passed to
// Update. Nothing happens between calls, so tests can replay a gesture with
// synthetic times and observe every intermediate state.
//
// # Input disambiguation
//
// Wheel events are attributed to a mouse or a trackpad by a [Classifier].
// Mouse wheels navigate (or zoom with ctrl). Trackpad events are split into
// horizontal swipes that navigate, ctrl pinches that zoom at the pointer and
// vertical swipes that drag the image down to close. The first time a
// trackpad is seen the viewer runs a short calibration to learn whether the
// user has natural scrolling, and persists the answer in a [PreferenceStore].
//
// Pointer events drive single-pointer pans, two-pointer pinches and the
// touch swipe-to-close. Exactly one gesture owns input at a time; see
// [GestureKind].
//
// # Scripts
//
// [LoadScript] parses a JSON gesture script that replays wheel, drag, swipe,
// pinch and key input through the inject queue, one step per frame:
//
//	runner, _ := spotlight.LoadScript(data)
//	v.SetScript(runner)
package spotlight
