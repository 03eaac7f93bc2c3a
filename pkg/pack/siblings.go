package pack

import "math"

type circle struct {
	x, y, r float64
}

// chainNode is an element of the circular front chain.
type chainNode struct {
	c          *circle
	next, prev *chainNode
}

// packSiblings positions circles tangent to one another around the origin
// and returns the radius of their enclosing circle. The circles are moved so
// that the enclosing circle is centered at the origin.
func packSiblings(circles []*circle, rng *lcg) float64 {
	n := len(circles)
	if n == 0 {
		return 0
	}

	a := circles[0]
	a.x, a.y = 0, 0
	if n == 1 {
		return a.r
	}

	b := circles[1]
	a.x = -b.r
	b.x, b.y = a.r, 0
	if n == 2 {
		return a.r + b.r
	}

	place(b, a, circles[2])

	na, nb, nc := &chainNode{c: a}, &chainNode{c: b}, &chainNode{c: circles[2]}
	na.next, nc.prev = nb, nb
	nb.next, na.prev = nc, nc
	nc.next, nb.prev = na, na

outer:
	for i := 3; i < n; i++ {
		c := circles[i]
		place(na.c, nb.c, c)
		nc = &chainNode{c: c}

		// Find the closest intersecting circle on the front chain, if any,
		// searching forward from b and backward from a alternately.
		j, k := nb.next, na.prev
		sj, sk := nb.c.r, na.c.r
		for {
			if sj <= sk {
				if intersects(j.c, c) {
					nb = j
					na.next, nb.prev = nb, na
					i--
					continue outer
				}
				sj += j.c.r
				j = j.next
			} else {
				if intersects(k.c, c) {
					na = k
					na.next, nb.prev = nb, na
					i--
					continue outer
				}
				sk += k.c.r
				k = k.prev
			}
			if j == k.next {
				break
			}
		}

		// Insert c between a and b.
		nc.prev, nc.next = na, nb
		na.next, nb.prev = nc, nc
		nb = nc

		// Pick the chain pair closest to the origin as the next a, b.
		best := score(na)
		for cur := nc.next; cur != nb; cur = cur.next {
			if s := score(cur); s < best {
				na, best = cur, s
			}
		}
		nb = na.next
	}

	front := []*circle{nb.c}
	for cur := nb.next; cur != nb; cur = cur.next {
		front = append(front, cur.c)
	}
	e := encloseRandom(front, rng)

	for _, c := range circles {
		c.x -= e.x
		c.y -= e.y
	}
	return e.r
}

// place positions c tangent to both a and b.
func place(b, a, c *circle) {
	dx, dy := b.x-a.x, b.y-a.y
	d2 := dx*dx + dy*dy
	if d2 == 0 {
		c.x, c.y = a.x+c.r, a.y
		return
	}
	a2 := (a.r + c.r) * (a.r + c.r)
	b2 := (b.r + c.r) * (b.r + c.r)
	if a2 > b2 {
		x := (d2 + b2 - a2) / (2 * d2)
		y := math.Sqrt(math.Max(0, b2/d2-x*x))
		c.x = b.x - x*dx - y*dy
		c.y = b.y - x*dy + y*dx
	} else {
		x := (d2 + a2 - b2) / (2 * d2)
		y := math.Sqrt(math.Max(0, a2/d2-x*x))
		c.x = a.x + x*dx - y*dy
		c.y = a.y + x*dy + y*dx
	}
}

func intersects(a, b *circle) bool {
	dr := a.r + b.r - 1e-6
	dx, dy := b.x-a.x, b.y-a.y
	return dr > 0 && dr*dr > dx*dx+dy*dy
}

// score is the squared distance from the origin to the weighted midpoint of
// node and its successor.
func score(node *chainNode) float64 {
	a, b := node.c, node.next.c
	ab := a.r + b.r
	dx := (a.x*b.r + b.x*a.r) / ab
	dy := (a.y*b.r + b.y*a.r) / ab
	return dx*dx + dy*dy
}
