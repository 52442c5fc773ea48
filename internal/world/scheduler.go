package world

import "github.com/annel0/voxel-world/internal/vec"

// EnqueueLoads сканирует куб [origin-R, origin+R]^3 вокруг каждого наблюдателя и ставит
// в очередь загрузки координаты, которые:
//   - ещё не загружены;
//   - ещё не стоят в очереди загрузки;
//   - лежат не дальше R от origin (евклидово расстояние в чанках).
//
// Возвращает количество поставленных в очередь координат.
func EnqueueLoads(st *State, observers []Observer) int {
	queued := 0

	for _, o := range observers {
		origin := o.Origin(st.Width)
		r := int(o.RenderDistance)

		for x := origin.X - r; x <= origin.X+r; x++ {
			for y := origin.Y - r; y <= origin.Y+r; y++ {
				for z := origin.Z - r; z <= origin.Z+r; z++ {
					c := vec.Vec3{X: x, Y: y, Z: z}

					if st.Registry.Contains(c) || st.Load.Contains(c) {
						continue
					}
					if !origin.WithinRadius(c, r) {
						continue
					}

					st.Load.Push(c)
					queued++
				}
			}
		}
	}

	return queued
}

// EnqueueUnloads ставит в очередь выгрузки загруженные чанки, которые для КАЖДОГО
// наблюдателя лежат дальше R+M. Чанк, видимый хотя бы одному наблюдателю в пределах
// R+M, остаётся. Полоса (R, R+M] не загружается заново и не выгружается.
// Без наблюдателей условие выполняется для всех чанков, и выгружается весь реестр.
func EnqueueUnloads(st *State, observers []Observer) int {
	origins := make([]vec.Vec3, len(observers))
	for i, o := range observers {
		origins[i] = o.Origin(st.Width)
	}

	queued := 0
	for _, e := range st.Registry.Entries() {
		if !outOfRangeForAll(e.Coords, observers, origins) {
			continue
		}

		req := UnloadRequest{Coords: e.Coords, Handle: e.Handle}
		if st.Unload.Contains(req) {
			continue
		}

		st.Unload.Push(req)
		queued++
	}

	return queued
}

// outOfRangeForAll - true, если чанк дальше R+M от каждого наблюдателя
func outOfRangeForAll(c vec.Vec3, observers []Observer, origins []vec.Vec3) bool {
	for i, o := range observers {
		if origins[i].WithinRadius(c, o.RetainRadius()) {
			return false
		}
	}
	return true
}
