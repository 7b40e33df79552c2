package engine

import (
	"math"
	"sort"
)

// Pillar is the leaf-level rated dimension.
type Pillar struct {
	Slug  string
	Name  string
	Order float64 // NaN when absent or unparseable
	Hex   string
	URL   string
}

// Subdomain groups pillars beneath a domain. Slug is empty for the
// anonymous groups holding pillars that have no subdomain of their own.
type Subdomain struct {
	Slug    string
	Name    string
	Order   float64
	Pillars []Pillar
}

// Domain is the top-level grouping of the framework hierarchy.
type Domain struct {
	Slug       string
	Name       string
	Order      float64
	Subdomains []*Subdomain
}

// Framework is the three-level ordered hierarchy built from the
// denormalized framework dataset.
type Framework struct {
	Domains []*Domain
}

// FindDomain returns the domain with the given slug, or nil.
func (fw *Framework) FindDomain(slug string) *Domain {
	want := Slugify(slug)
	for _, d := range fw.Domains {
		if d.Slug == want {
			return d
		}
	}
	return nil
}

var frameworkSchema = Schema{Dataset: "framework", Fields: []Field{
	{Logical: "domain_name", Aliases: []string{"domain_name"}},
	{Logical: "domain_url", Aliases: []string{"domain_url"}},
	{Logical: "domain_var", Aliases: []string{"domain_var"}},
	{Logical: "domain_order", Aliases: []string{"domain_order", "order_domain", "domain_sort"}},
	{Logical: "subdomain_name", Aliases: []string{"subdomain_name"}},
	{Logical: "subdomain_url", Aliases: []string{"subdomain_url"}},
	{Logical: "subdomain_var", Aliases: []string{"subdomain_var"}},
	{Logical: "subdomain_order", Aliases: []string{"subdomain_order", "order_subdomain", "subdomain_sort"}},
	{Logical: "pillar_name", Aliases: []string{"pillar_name"}},
	{Logical: "pillar_url", Aliases: []string{"pillar_url"}},
	{Logical: "pillar_var", Aliases: []string{"pillar_var"}},
	{Logical: "pillar_order", Aliases: []string{"pillar_order", "order_pillar", "pillar_sort", "order"}},
	{Logical: "pillar_hex", Aliases: []string{"pillar_hex", "hex", "pillar_color", "color", "colour", "color_hex", "colour_hex"}},
}}

// nodeSlug derives a node's identity in priority order: explicit var
// column, else slugified url, else slugified name.
func nodeSlug(r Row, varK, urlK, nameK string) string {
	if v := r.Get(varK); v != "" {
		return Slugify(v)
	}
	if v := r.Get(urlK); v != "" {
		return Slugify(v)
	}
	if v := r.Get(nameK); v != "" {
		return Slugify(v)
	}
	return ""
}

func orderOf(r Row, key string) float64 {
	if n, ok := ParseScore(r.Get(key)); ok {
		return n
	}
	return math.NaN()
}

// orderKey sorts absent orders after every valid order.
func orderKey(o float64) float64 {
	if math.IsNaN(o) {
		return math.Inf(1)
	}
	return o
}

// BuildFramework assembles the domain -> subdomain -> pillar tree.
//
// Rows sharing a slug merge into one node with first-occurrence
// attributes; pillar lists keep only unique leaves. Rows with an empty
// subdomain slug share one anonymous subdomain per domain, preserving
// the input order of their pillars. Every level is then sorted stably
// ascending by numeric order, ties and absent orders keeping
// first-encountered position.
func BuildFramework(rows []Row) (*Framework, error) {
	keys, err := frameworkSchema.Resolve(rows)
	if err != nil {
		return nil, err
	}
	if keys["domain_var"] == "" && keys["domain_url"] == "" && keys["domain_name"] == "" {
		return nil, errf(KindSchema, "framework dataset missing domain identity column")
	}
	if keys["pillar_var"] == "" && keys["pillar_url"] == "" && keys["pillar_name"] == "" {
		return nil, errf(KindSchema, "framework dataset missing pillar identity column")
	}

	fw := &Framework{}
	domainIdx := map[string]*Domain{}
	subIdx := map[string]map[string]*Subdomain{}  // domain slug -> subdomains ("" = anonymous)
	pillarIdx := map[*Subdomain]map[string]bool{} // unique leaf slugs per subdomain

	for _, r := range rows {
		dSlug := nodeSlug(r, keys["domain_var"], keys["domain_url"], keys["domain_name"])
		if dSlug == "" {
			continue
		}
		d := domainIdx[dSlug]
		if d == nil {
			name := r.Get(keys["domain_name"])
			if name == "" {
				name = Titleize(dSlug)
			}
			d = &Domain{Slug: dSlug, Name: name, Order: orderOf(r, keys["domain_order"])}
			domainIdx[dSlug] = d
			subIdx[dSlug] = map[string]*Subdomain{}
			fw.Domains = append(fw.Domains, d)
		}

		sdSlug := nodeSlug(r, keys["subdomain_var"], keys["subdomain_url"], keys["subdomain_name"])
		sd := subIdx[dSlug][sdSlug]
		if sd == nil {
			sd = &Subdomain{Slug: sdSlug, Order: orderOf(r, keys["subdomain_order"])}
			if sdSlug != "" {
				name := r.Get(keys["subdomain_name"])
				if name == "" {
					name = Titleize(sdSlug)
				}
				sd.Name = name
			}
			subIdx[dSlug][sdSlug] = sd
			d.Subdomains = append(d.Subdomains, sd)
			pillarIdx[sd] = map[string]bool{}
		}

		pSlug := nodeSlug(r, keys["pillar_var"], keys["pillar_url"], keys["pillar_name"])
		if pSlug == "" || pillarIdx[sd][pSlug] {
			continue
		}
		pillarIdx[sd][pSlug] = true
		name := r.Get(keys["pillar_name"])
		if name == "" {
			name = Titleize(pSlug)
		}
		sd.Pillars = append(sd.Pillars, Pillar{
			Slug:  pSlug,
			Name:  name,
			Order: orderOf(r, keys["pillar_order"]),
			Hex:   NormalizeHex(r.Get(keys["pillar_hex"])),
			URL:   r.Get(keys["pillar_url"]),
		})
	}

	sort.SliceStable(fw.Domains, func(i, j int) bool {
		return orderKey(fw.Domains[i].Order) < orderKey(fw.Domains[j].Order)
	})
	for _, d := range fw.Domains {
		sort.SliceStable(d.Subdomains, func(i, j int) bool {
			return orderKey(d.Subdomains[i].Order) < orderKey(d.Subdomains[j].Order)
		})
		for _, sd := range d.Subdomains {
			sort.SliceStable(sd.Pillars, func(i, j int) bool {
				return orderKey(sd.Pillars[i].Order) < orderKey(sd.Pillars[j].Order)
			})
		}
	}
	return fw, nil
}
