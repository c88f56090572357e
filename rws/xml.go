package rws

import (
	"encoding/xml"
	"io"
	"strings"
)

// node - один элемент разобранного XHTML-ответа контроллера. Robot Web
// Services кодирует полезные данные атрибутом class на элементах li и span,
// поэтому дерево хранит только имя, атрибуты, текст и детей.
type node struct {
	name     string
	attrs    map[string]string
	text     string
	children []*node
}

// parseXML строит дерево элементов из XHTML-ответа контроллера.
func parseXML(r io.Reader) (*node, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity

	root := &node{name: "#document", attrs: map[string]string{}}
	stack := []*node{root}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			attrs := make(map[string]string, len(t.Attr))
			for _, attr := range t.Attr {
				attrs[attr.Name.Local] = attr.Value
			}
			child := &node{name: t.Name.Local, attrs: attrs}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, child)
			stack = append(stack, child)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			stack[len(stack)-1].text += string(t)
		}
	}

	return root, nil
}

// attr возвращает значение атрибута элемента.
func (n *node) attr(name string) string {
	return n.attrs[name]
}

// findClass возвращает первый элемент поддерева с данным значением class.
func (n *node) findClass(class string) *node {
	for _, child := range n.children {
		if child.attr("class") == class {
			return child
		}
		if found := child.findClass(class); found != nil {
			return found
		}
	}
	return nil
}

// findClassAll возвращает все элементы поддерева с данным значением class
// в порядке документа.
func (n *node) findClassAll(class string) []*node {
	var found []*node
	for _, child := range n.children {
		if child.attr("class") == class {
			found = append(found, child)
		}
		found = append(found, child.findClassAll(class)...)
	}
	return found
}

// spanText возвращает текст первого элемента поддерева с данным class.
// Второй результат false означает, что элемента в ответе нет.
func (n *node) spanText(class string) (string, bool) {
	found := n.findClass(class)
	if found == nil {
		return "", false
	}
	return strings.TrimSpace(found.text), true
}

// firstHref возвращает атрибут href первой ссылки поддерева.
func (n *node) firstHref() string {
	for _, child := range n.children {
		if child.name == "a" {
			if href := child.attr("href"); href != "" {
				return href
			}
		}
		if href := child.firstHref(); href != "" {
			return href
		}
	}
	return ""
}
