// Package clf reads and writes CLF layer files.
//
// A layer file stores sliced 2D manufacturing geometry: for every layer
// height it holds the polygon outlines, support lines and web hatching of
// the models in the build, together with a header describing the file, its
// bounding box and its model table.
//
// # Opening files
//
//	f, err := clf.Open("Part.clf")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	layer, err := f.Find(2.5)
//	for _, s := range layer.Shapes {
//	    fmt.Println(s.Kind, s.Model.Name, len(s.Paths))
//	}
//
// By default only the seek table is read at open time and layers are decoded
// on demand. [WithEagerLoad] decodes every layer while opening instead.
//
// A height outside the file's bounding box, or further than one layer
// thickness from the nearest layer, yields an empty layer rather than an
// error. Errors are reserved for corrupt or unreadable data.
//
// # Builds
//
// A [Build] queries several files (part, support, net) as one volume:
//
//	b, err := clf.OpenPattern("Part_%d.clf", []int{1, 2, 3})
//	for list, err := range b.Forward() {
//	    ...
//	}
//
// # Shapes
//
// Each [Shape] is one of four kinds. A [ModelCluster] is a filled region
// whose first path is the outer loop; the remaining paths are the other
// loops of the region, usually holes. The file does not record winding,
// so no attempt is made to classify the remaining loops further.
package clf
