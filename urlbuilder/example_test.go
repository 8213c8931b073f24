package urlbuilder_test

import (
	"fmt"

	"github.com/a-h/fluenturl/urlbuilder"
)

func ExampleParse() {
	ub, err := urlbuilder.Parse("http://www.shoutem.local/app")
	if err != nil {
		fmt.Println(err)
		return
	}
	if err = ub.SetHost("www.shoutem.com"); err != nil {
		fmt.Println(err)
		return
	}
	if err = ub.SetScheme("https"); err != nil {
		fmt.Println(err)
		return
	}
	ub.AddPathSegment("test").
		SetQueryParam("nid", 123).
		AppendQueryParam("nid", 321)
	fmt.Println(ub)
	fmt.Println(ub.ToRelativeString())
	// Output:
	// https://www.shoutem.com/app/test?nid=123&nid=321
	// app/test?nid=123&nid=321
}

func ExamplePath() {
	fmt.Println(urlbuilder.Path("search").Query("q", "go lang").Query("page", 2))
	// Output: http://localhost/search?q=go%20lang&page=2
}

func ExampleURLBuilder_SetScheme() {
	ub := urlbuilder.MustParse("http://example.com:8080/")
	_ = ub.SetScheme("https")
	fmt.Println(ub)

	ub = urlbuilder.MustParse("http://example.com/")
	_ = ub.SetScheme("https")
	fmt.Println(ub, ub.Port())
	// Output:
	// https://example.com:8080/
	// https://example.com/ 443
}

func ExampleURLBuilder_SetQueryParam() {
	ub := urlbuilder.MustParse("http://example.com/users?role=guest")
	ub.SetQueryParam("role", []string{"moderator", "admin"}).
		SetQueryParam("active", true)
	fmt.Println(ub)
	// Output: http://example.com/users?role=moderator&role=admin&active=true
}

func ExampleQueryParams_Encode() {
	q := urlbuilder.ParseQuery("?q=a+b&tag=x&tag=y%26z")
	for name, v := range q.All() {
		fmt.Println(name, v.Kind(), v.Strings())
	}
	fmt.Println(q.Encode(true))
	// Output:
	// q scalar [a b]
	// tag list [x y&z]
	// q=a+b&tag=x&tag=y%26z
}
