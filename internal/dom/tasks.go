package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/desertthunder/taskview/internal/models"
)

// Selection wraps the whole document in a [goquery.Selection] for read-only queries.
func (d *Document) Selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(d.root).Selection
}

// Text returns the text content of the element with the given id, trimmed of surrounding whitespace.
func (d *Document) Text(id string) (string, bool) {
	n, ok := d.ByID(id)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(goquery.NewDocumentFromNode(n).Text()), true
}

// Children returns the element children of the element with the given id, in document order.
func (d *Document) Children(id string) []*html.Node {
	n, ok := d.ByID(id)
	if !ok {
		return nil
	}
	return goquery.NewDocumentFromNode(n).Children().Nodes
}

// Interior returns the element children of the container with the given id, excluding the first and last.
//
// The ended bucket frames its rows between a header and a footer sentinel.
func (d *Document) Interior(id string) []*html.Node {
	children := d.Children(id)
	if len(children) <= 2 {
		return nil
	}
	return children[1 : len(children)-1]
}

// Tasks returns the rows rendered in bucket, in display order.
func (d *Document) Tasks(bucket models.Bucket) []models.Task {
	var rows []*html.Node
	if bucket == models.Ended {
		rows = d.Interior(bucket.ContainerID())
	} else {
		rows = d.Children(bucket.ContainerID())
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, n := range rows {
		id := elementID(n)
		if id == "" {
			continue
		}
		errText, _ := d.Text(models.ErrorNodeID(id))
		tasks = append(tasks, models.Task{
			ID:     id,
			Bucket: bucket,
			Markup: d.Outer(n),
			Text:   strings.Join(strings.Fields(goquery.NewDocumentFromNode(n).Text()), " "),
			Error:  errText,
		})
	}
	return tasks
}

// Find runs selector against the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.Selection().Find(selector)
}
