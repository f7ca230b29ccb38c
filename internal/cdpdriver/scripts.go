package cdpdriver

import (
	"encoding/json"
	"fmt"
)

// Elements are handed to Go as small integer refs backed by a page-side registry of
// weak references. A ref is valid while its element stays attached; looking up a
// detached element throws a stale element error.
const prelude = `
const reg = window.__ncmctlRefs || (window.__ncmctlRefs = {next: 1, els: new Map(), ids: new WeakMap()});
const lookup = (id) => {
  const ref = reg.els.get(id);
  const el = ref && ref.deref();
  if (!el || !el.isConnected) { reg.els.delete(id); throw new Error("stale element " + id); }
  return el;
};
const refOf = (el) => {
  let id = reg.ids.get(el);
  if (!id) { id = reg.next++; reg.ids.set(el, id); reg.els.set(id, new WeakRef(el)); }
  return id;
};
const shown = (el) => {
  if (!el.getClientRects().length) return false;
  const style = getComputedStyle(el);
  return style.visibility !== "hidden" && style.display !== "none";
};
`

const (
	queryAllScript = `
const scope = args[0] ? lookup(args[0]) : document;
const out = [];
for (const el of scope.querySelectorAll(args[1])) { if (shown(el)) out.push(refOf(el)); }
return out;`

	parentScript = `
const parent = lookup(args[0]).parentElement;
if (!parent) throw new Error("element has no parent");
return refOf(parent);`

	attributeScript = `return lookup(args[0]).getAttribute(args[1]) ?? "";`

	textScript = `const el = lookup(args[0]); return el.innerText || el.textContent || "";`

	valueScript = `return String(lookup(args[0]).value ?? "");`

	boxScript = `
const el = lookup(args[0]);
if (args[1]) el.scrollIntoView({block: "nearest", inline: "nearest"});
const r = el.getBoundingClientRect();
return {x: r.x, y: r.y, width: r.width, height: r.height};`

	focusScript = `lookup(args[0]).focus(); return true;`

	clearScript = `
const el = lookup(args[0]);
el.focus();
const proto = el instanceof HTMLTextAreaElement ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
Object.getOwnPropertyDescriptor(proto, "value").set.call(el, "");
el.dispatchEvent(new Event("input", {bubbles: true}));
return true;`
)

// script wraps body into an expression evaluating to its return value. args are
// passed as a JSON array bound to args.
func script(body string, args ...any) (string, error) {
	if args == nil {
		args = []any{}
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode script args: %w", err)
	}
	return fmt.Sprintf("(() => {%s\nconst args = %s;\n%s\n})()", prelude, encoded, body), nil
}
